package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pamfold/pamfold/internal/log"
)

const configBanner = `# pamfold configuration
#
# Searched at .pamfold/config.yaml, then ~/.config/pamfold/config.yaml.
# Pass --config to use a different file.

`

// WriteDefault creates a commented config skeleton at the given path,
// creating parent directories as needed. The write is atomic: the file
// is encoded to a temp file in the target directory, then renamed over
// the destination.
func WriteDefault(path string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", path)

	var buf bytes.Buffer
	buf.WriteString(configBanner)
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(defaultNode()); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".pamfold.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", path)
	return nil
}

// defaultNode builds the commented yaml tree for the default config.
func defaultNode() *yaml.Node {
	d := Defaults()
	return mappingNode(
		keyNode("log", "Debug log"),
		mappingNode(
			keyNode("file", "Log file; logging stays off while unset"),
			strNode(d.Log.File),
			keyNode("level", "debug, info, warn or error"),
			strNode(d.Log.Level),
		),
		keyNode("watch", "Deck file watching (pamfold watch / browse)"),
		mappingNode(
			keyNode("debounce", "Quiet period before a changed deck is re-parsed"),
			strNode(d.Watch.Debounce.String()),
		),
		keyNode("trace", "OpenTelemetry tracing of parse and update passes"),
		mappingNode(
			keyNode("enabled", ""),
			boolNode(d.Trace.Enabled),
			keyNode("exporter", "none, file, stdout or otlp"),
			strNode(d.Trace.Exporter),
			keyNode("file", "Output for the file exporter; default ~/.config/pamfold/traces/traces.jsonl"),
			strNode(d.Trace.File),
			keyNode("otlp_endpoint", "Collector endpoint for the otlp exporter"),
			strNode(d.Trace.OTLPEndpoint),
			keyNode("sample_rate", "Fraction of traces recorded, 0.0 to 1.0"),
			floatNode(d.Trace.SampleRate),
			keyNode("service_name", ""),
			strNode(d.Trace.ServiceName),
		),
		keyNode("ui", "Fold browser"),
		mappingNode(
			keyNode("context_lines", "Lines of context shown around the selected fold"),
			intNode(d.UI.ContextLines),
		),
	)
}

func mappingNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func keyNode(name, comment string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: name, HeadComment: comment}
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func floatNode(v float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'f', 1, 64)}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}
