package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations so operators can keep a readable config file.
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Security struct {
		LoginAttemptThreshold int      `json:"login_attempt_threshold"`
		LoginAttemptWindow    Duration `json:"login_attempt_window"`
		LockoutDuration       Duration `json:"lockout_duration"`
		SessionTTL            Duration `json:"session_ttl"`
		ResetTokenTTL         Duration `json:"reset_token_ttl"`
		ResetMinInterval      Duration `json:"reset_min_interval"`
		OTPStep               Duration `json:"otp_step"`
		OTPDigits             int      `json:"otp_digits"`
		LoginThrottleMax      int      `json:"login_throttle_max"`
		LoginThrottleWindow   Duration `json:"login_throttle_window"`
	} `json:"security,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Notifier struct {
		GatewayURL  string   `json:"gateway_url"`
		APIKey      string   `json:"api_key"`
		FromAddress string   `json:"from_address"`
		Timeout     Duration `json:"timeout"`
	} `json:"notifier,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
		},
		Security: Security{
			LoginAttemptThreshold: jsonCfg.Security.LoginAttemptThreshold,
			LoginAttemptWindow:    time.Duration(jsonCfg.Security.LoginAttemptWindow),
			LockoutDuration:       time.Duration(jsonCfg.Security.LockoutDuration),
			SessionTTL:            time.Duration(jsonCfg.Security.SessionTTL),
			ResetTokenTTL:         time.Duration(jsonCfg.Security.ResetTokenTTL),
			ResetMinInterval:      time.Duration(jsonCfg.Security.ResetMinInterval),
			OTPStep:               time.Duration(jsonCfg.Security.OTPStep),
			OTPDigits:             jsonCfg.Security.OTPDigits,
			LoginThrottleMax:      jsonCfg.Security.LoginThrottleMax,
			LoginThrottleWindow:   time.Duration(jsonCfg.Security.LoginThrottleWindow),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Notifier: Notifier{
			GatewayURL:  jsonCfg.Notifier.GatewayURL,
			APIKey:      jsonCfg.Notifier.APIKey,
			FromAddress: jsonCfg.Notifier.FromAddress,
			Timeout:     time.Duration(jsonCfg.Notifier.Timeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
