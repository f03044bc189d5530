package main

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire/set"
)

var (
	// key=value or key="value"
	propertiesRegexp = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([^\s"]+))`)

	knownAutowireProperties = set.NewWithValues("named")
)

type AutowireAnnotation struct {
	logger      *zerolog.Logger
	description string
	properties  map[string]string
}

func (a AutowireAnnotation) Named() (named string, found bool) {
	named, found = a.properties["named"]
	return named, found && named != ""
}

func (a AutowireAnnotation) UnknownProperties() []string {
	var unknown []string
	for key := range a.properties {
		if !knownAutowireProperties.Contains(key) {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// parseAutowireAnnotation reads the doc of an annotated declaration, the lines not starting
// with an annotation make the description.
func parseAutowireAnnotation(logger *zerolog.Logger, docText string, tag string) AutowireAnnotation {
	lines := strings.Split(docText, "\n")

	var descriptionLines []string
	var annotationLine string

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, tag) {
			annotationLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	annotation := AutowireAnnotation{
		logger:      logger,
		description: strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		properties:  parseProperties(annotationLine, tag),
	}
	for _, unknown := range annotation.UnknownProperties() {
		logger.Warn().Msgf("Unknown property %q in %s annotation, ignoring it", unknown, tag)
	}
	return annotation
}

func hasAnnotation(docText string, tag string) bool {
	for _, line := range strings.Split(docText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), tag) {
			return true
		}
	}
	return false
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	if line == "" {
		return properties
	}

	content := strings.TrimPrefix(line, tag)
	content = strings.TrimSpace(content)

	if content == "" {
		return properties
	}

	matches := propertiesRegexp.FindAllStringSubmatch(content, -1)

	for _, match := range matches {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}

// parseDefaultAnnotation reads an inline parameter comment such as `// @default value="Petrol"`.
func parseDefaultAnnotation(logger *zerolog.Logger, comment string) (value string, found bool) {
	content := strings.TrimPrefix(comment, "//")
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, defaultAnnotationTag) {
		return "", false
	}

	properties := parseProperties(content, defaultAnnotationTag)
	value, found = properties["value"]
	if !found {
		logger.Warn().Msgf("Missing value property in %q, ignoring it", content)
	}
	return value, found
}
