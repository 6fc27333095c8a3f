package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	dotEnv := "SCM_API_BASEURL=http://api.test:8080/\nSCM_LIST_PAGESIZE=25\n"
	if err := os.WriteFile(filepath.Join(dir, "config", ".env.qa"), []byte(dotEnv), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("SCM_API_BASEURL")
		_ = os.Unsetenv("SCM_LIST_PAGESIZE")
	})

	conf, err := LoadConfig("qa", dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if conf.Env != "QA" {
		t.Errorf("Env = %s, want QA", conf.Env)
	}
	if conf.API.BaseURL != "http://api.test:8080" {
		t.Errorf("API.BaseURL = %s", conf.API.BaseURL)
	}
	if conf.List.PageSize != 25 {
		t.Errorf("List.PageSize = %d, want 25", conf.List.PageSize)
	}
	if conf.API.Timeout != 20*time.Second {
		t.Errorf("API.Timeout = %v, want 20s", conf.API.Timeout)
	}
	if conf.Debug {
		t.Error("Debug must default to false outside DEV")
	}
}

func TestLoadConfig_defaults(t *testing.T) {
	conf, err := LoadConfig("", t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{name: "env", got: conf.Env, want: "DEV"},
		{name: "debug", got: conf.Debug, want: true},
		{name: "baseURL", got: conf.API.BaseURL, want: "http://localhost:3000"},
		{name: "session store", got: conf.Session.Store, want: "file"},
		{name: "page size", got: conf.List.PageSize, want: 10},
		{name: "redis prefix", got: conf.Redis.Prefix, want: "scm:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
