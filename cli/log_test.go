package cli

import (
	"testing"

	"github.com/ardnew/webuild/log"
)

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLevel  log.Level
		wantFormat log.Format
		wantCaller bool
		wantPretty bool
	}{
		{
			name:       "none",
			args:       []string{"build", "site.blue"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantPretty: true,
		},
		{
			name:       "separate_values",
			args:       []string{"--log-level", "debug", "--log-format", "json", "build"},
			wantLevel:  log.LevelDebug,
			wantFormat: log.FormatJSON,
			wantPretty: true,
		},
		{
			name:       "assigned_values",
			args:       []string{"build", "--log-level=trace", "--log-caller", "--no-log-pretty"},
			wantLevel:  log.LevelTrace,
			wantFormat: log.DefaultFormat,
			wantCaller: true,
		},
		{
			name:       "negated_assignment",
			args:       []string{"--no-log-caller=false", "--log-pretty=false"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantCaller: true,
		},
		{
			name:       "after_terminator",
			args:       []string{"build", "--", "--log-level=error"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := log.Default()
			t.Cleanup(func() { log.SetDefault(saved) })

			log.SetDefault(log.Make(nil))

			f := logConfig{
				Level:  logLevel(log.DefaultLevel.String()),
				Format: logFormat(log.DefaultFormat.String()),
				Pretty: true,
			}
			f.scan(tt.args)

			if got := log.Default().Level(); got != tt.wantLevel {
				t.Errorf("level = %v, want %v", got, tt.wantLevel)
			}

			if got := log.Default().Format(); got != tt.wantFormat {
				t.Errorf("format = %v, want %v", got, tt.wantFormat)
			}

			if f.Caller != tt.wantCaller {
				t.Errorf("caller = %v, want %v", f.Caller, tt.wantCaller)
			}

			if f.Pretty != tt.wantPretty {
				t.Errorf("pretty = %v, want %v", f.Pretty, tt.wantPretty)
			}
		})
	}
}
