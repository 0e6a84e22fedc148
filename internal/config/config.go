package config

import "github.com/woozymasta/pathrules"

// Config holds app configuration
type Config struct {
	// Output is the destination file for repack
	Output string `mapstructure:"output"`
	// OutputDir is the destination directory for extract
	OutputDir string `mapstructure:"output_dir"`

	// Include and Exclude are lump name glob patterns. Rules are applied in
	// order (includes first, then excludes) and the last match wins.
	// With no include patterns every lump is selected.
	Include         []string `mapstructure:"include"`
	Exclude         []string `mapstructure:"exclude"`
	CaseInsensitive bool     `mapstructure:"case_insensitive"`

	// Workers bounds how many archives info opens at once (0 = one per file)
	Workers int `mapstructure:"workers"`

	DryRun       bool   `mapstructure:"dry_run"`
	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}

// NameMatcher compiles the include/exclude patterns into a matcher.
// It returns nil when no patterns are configured.
func (c *Config) NameMatcher() (*pathrules.Matcher, error) {
	if len(c.Include) == 0 && len(c.Exclude) == 0 {
		return nil, nil
	}

	defaultAction := pathrules.ActionExclude
	if len(c.Include) == 0 {
		defaultAction = pathrules.ActionInclude
	}

	rules := make([]pathrules.Rule, 0, len(c.Include)+len(c.Exclude))
	for _, p := range c.Include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
	}
	for _, p := range c.Exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	return pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: c.CaseInsensitive,
		DefaultAction:   defaultAction,
	})
}
