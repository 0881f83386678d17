package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for the optional config file.
type StructuredJSONConfig struct {
	App struct {
		MasterPassphrase string   `json:"master_passphrase"`
		TokenSignKey     string   `json:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer"`
		SessionDuration  Duration `json:"session_duration"`
	} `json:"app,omitempty"`

	Security struct {
		FailedAttemptThreshold int      `json:"failed_attempt_threshold"`
		LockoutDuration        Duration `json:"lockout_duration"`
		MinPasswordLength      int      `json:"min_password_length"`
		KDFTime                uint32   `json:"kdf_time"`
		KDFMemoryKiB           uint32   `json:"kdf_memory_kib"`
		KDFThreads             uint8    `json:"kdf_threads"`
	} `json:"security,omitempty"`

	Storage struct {
		DB struct {
			Engine            string   `json:"engine"`
			DSN               string   `json:"dsn"`
			MinConns          int      `json:"min_conns"`
			MaxConns          int      `json:"max_conns"`
			AcquireTimeout    Duration `json:"acquire_timeout"`
			WriterHoldTimeout Duration `json:"writer_hold_timeout"`
		} `json:"db,omitempty"`

		Containers struct {
			Dir        string `json:"dir"`
			SaltFile   string `json:"salt_file"`
			UsersFile  string `json:"users_file"`
			SchemaFile string `json:"schema_file"`
		} `json:"containers,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

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
			MasterPassphrase: jsonCfg.App.MasterPassphrase,
			TokenSignKey:     jsonCfg.App.TokenSignKey,
			TokenIssuer:      jsonCfg.App.TokenIssuer,
			SessionDuration:  time.Duration(jsonCfg.App.SessionDuration),
		},
		Security: Security{
			FailedAttemptThreshold: jsonCfg.Security.FailedAttemptThreshold,
			LockoutDuration:        time.Duration(jsonCfg.Security.LockoutDuration),
			MinPasswordLength:      jsonCfg.Security.MinPasswordLength,
			KDFTime:                jsonCfg.Security.KDFTime,
			KDFMemoryKiB:           jsonCfg.Security.KDFMemoryKiB,
			KDFThreads:             jsonCfg.Security.KDFThreads,
		},
		Storage: Storage{
			DB: DB{
				Engine:            jsonCfg.Storage.DB.Engine,
				DSN:               jsonCfg.Storage.DB.DSN,
				MinConns:          jsonCfg.Storage.DB.MinConns,
				MaxConns:          jsonCfg.Storage.DB.MaxConns,
				AcquireTimeout:    time.Duration(jsonCfg.Storage.DB.AcquireTimeout),
				WriterHoldTimeout: time.Duration(jsonCfg.Storage.DB.WriterHoldTimeout),
			},
			Containers: Containers{
				Dir:        jsonCfg.Storage.Containers.Dir,
				SaltFile:   jsonCfg.Storage.Containers.SaltFile,
				UsersFile:  jsonCfg.Storage.Containers.UsersFile,
				SchemaFile: jsonCfg.Storage.Containers.SchemaFile,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
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
