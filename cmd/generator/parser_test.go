package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func Test_parseProperties(t *testing.T) {
	t.Run("it should parse simple key=value properties", func(t *testing.T) {
		// GIVEN
		line := "@autowire named=car other=10"
		tag := "@autowire"

		// WHEN
		result := parseProperties(line, tag)

		// THEN
		assert.Equal(t, "car", result["named"])
		assert.Equal(t, "10", result["other"])
	})

	t.Run("it should parse quoted values", func(t *testing.T) {
		// GIVEN
		line := `@autowire named="my car" other=5`
		tag := "@autowire"

		// WHEN
		result := parseProperties(line, tag)

		// THEN
		assert.Equal(t, "my car", result["named"])
		assert.Equal(t, "5", result["other"])
	})

	t.Run("it should parse unquoted values with punctuation", func(t *testing.T) {
		// GIVEN
		line := "@default value=2.5"
		tag := "@default"

		// WHEN
		result := parseProperties(line, tag)

		// THEN
		assert.Equal(t, "2.5", result["value"])
	})

	t.Run("it should return empty map for empty content", func(t *testing.T) {
		// GIVEN
		line := "@autowire"
		tag := "@autowire"

		// WHEN
		result := parseProperties(line, tag)

		// THEN
		assert.Empty(t, result)
	})
}

func Test_parseAutowireAnnotation(t *testing.T) {
	t.Run("it should separate the description from the annotation", func(t *testing.T) {
		// GIVEN
		logger := zerolog.Nop()
		doc := "@autowire named=\"car\"\nNewCar builds a car.\n\n@entrypoint\n"

		// WHEN
		annotation := parseAutowireAnnotation(&logger, doc, autowireAnnotationTag)

		// THEN
		named, found := annotation.Named()
		assert.True(t, found)
		assert.Equal(t, "car", named)
		assert.Equal(t, "NewCar builds a car.", annotation.description)
	})

	t.Run("it should not consider an empty name", func(t *testing.T) {
		// GIVEN
		logger := zerolog.Nop()

		// WHEN
		annotation := parseAutowireAnnotation(&logger, `@autowire named=""`, autowireAnnotationTag)

		// THEN
		_, found := annotation.Named()
		assert.False(t, found)
	})

	t.Run("it should warn about unknown properties", func(t *testing.T) {
		// GIVEN
		var logs bytes.Buffer
		logger := zerolog.New(&logs)

		// WHEN
		annotation := parseAutowireAnnotation(&logger, "@autowire priority=10", autowireAnnotationTag)

		// THEN
		assert.Equal(t, []string{"priority"}, annotation.UnknownProperties())
		assert.Contains(t, logs.String(), "priority")
	})
}

func Test_parseDefaultAnnotation(t *testing.T) {
	t.Run("it should read the value of an inline comment", func(t *testing.T) {
		// GIVEN
		logger := zerolog.Nop()

		// WHEN
		value, found := parseDefaultAnnotation(&logger, `// @default value="Petrol"`)

		// THEN
		assert.True(t, found)
		assert.Equal(t, "Petrol", value)
	})

	t.Run("it should accept an empty quoted value", func(t *testing.T) {
		// GIVEN
		logger := zerolog.Nop()

		// WHEN
		value, found := parseDefaultAnnotation(&logger, `// @default value=""`)

		// THEN
		assert.True(t, found)
		assert.Equal(t, "", value)
	})

	t.Run("it should ignore other comments", func(t *testing.T) {
		// GIVEN
		logger := zerolog.Nop()

		// WHEN
		_, found := parseDefaultAnnotation(&logger, "// number of wheels")

		// THEN
		assert.False(t, found)
	})

	t.Run("it should ignore annotations without value", func(t *testing.T) {
		// GIVEN
		logger := zerolog.Nop()

		// WHEN
		_, found := parseDefaultAnnotation(&logger, "// @default")

		// THEN
		assert.False(t, found)
	})
}

func Test_hasAnnotation(t *testing.T) {
	assert.True(t, hasAnnotation("Some text\n@entrypoint\n", entryPointAnnotationTag))
	assert.False(t, hasAnnotation("mentions @entrypoint inline\n", entryPointAnnotationTag))
}
