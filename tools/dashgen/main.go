package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/terrenos/tools/dashgen/dashboards"
	"github.com/donaldgifford/terrenos/tools/dashgen/rules"
	"github.com/donaldgifford/terrenos/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by dashgen. DO NOT EDIT.\n"

// Output file locations relative to Config.OutputDir.
var (
	dashboardPath = filepath.Join("grafana", "data", "terrenos-overview.json")
	recordingPath = filepath.Join("prometheus", "terrenos-recording-rules.yaml")
	alertsPath    = filepath.Join("prometheus", "terrenos-alerts.yaml")
)

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// artifact is one generated file.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	artifacts, err := generate(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

// generate builds and validates every enabled artifact.
func generate(cfg Config) ([]artifact, error) {
	var out []artifact

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, fmt.Errorf("building dashboard: %w", err)
		}
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding dashboard: %w", err)
		}
		result := validate.Dashboard(data, KnownMetrics)
		if !result.Ok() {
			return nil, fmt.Errorf("dashboard: %w", result.Err())
		}
		out = append(out, artifact{path: dashboardPath, data: append(data, '\n')})
	}

	if cfg.RulesEnabled {
		for _, r := range []struct {
			path string
			cr   rules.PrometheusRule
		}{
			{recordingPath, rules.RecordingRules()},
			{alertsPath, rules.AlertRules()},
		} {
			result := validate.Rules(r.cr, KnownMetrics)
			if !result.Ok() {
				return nil, fmt.Errorf("%s: %w", r.cr.Metadata.Name, result.Err())
			}
			data, err := yaml.Marshal(r.cr)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", r.cr.Metadata.Name, err)
			}
			out = append(out, artifact{path: r.path, data: append([]byte(generatedHeader), data...)})
		}
	}

	return out, nil
}
