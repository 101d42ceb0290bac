package output

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders reports as YAML.
type YAMLFormatter struct{}

// FormatReport renders a report as YAML.
func (f *YAMLFormatter) FormatReport(report *Report) (string, error) {
	if report == nil {
		return "", nil
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(data), "\n"), nil
}
