package config

import "path/filepath"

// Static holds static asset and uploaded media locations. Empty roots
// default to <BASE_DIR>/static and <BASE_DIR>/media.
type Static struct {
	StaticURL  string `env:"STATIC_URL" envDefault:"/static/" validate:"startswith=/,endswith=/" yaml:"static_url"`
	StaticRoot string `env:"STATIC_ROOT" yaml:"static_root"`
	MediaURL   string `env:"MEDIA_URL" envDefault:"/media/" validate:"startswith=/,endswith=/" yaml:"media_url"`
	MediaRoot  string `env:"MEDIA_ROOT" yaml:"media_root"`
}

func (s *Static) finalize(baseDir string) {
	if s.StaticRoot == "" {
		s.StaticRoot = filepath.Join(baseDir, "static")
	}
	if s.MediaRoot == "" {
		s.MediaRoot = filepath.Join(baseDir, "media")
	}
}
