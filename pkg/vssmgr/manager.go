// Package vssmgr wires together everything a tool needs to talk to a VSS
// server: a viper configuration, a logrus logger and a ready-to-use client.
// Library users who already have their own config plumbing can skip it and
// call vss.NewFromConfig (or vss.New) directly.
package vssmgr

import (
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/versionedstorage/vss-go/pkg/vss"
)

type VssManager struct {
	Client *vss.Client
	Logger vss.Logger
	Cfg    *viper.Viper
}

// NewManager builds a manager from user options:
//
//	"config-file" (string)     explicit config path; otherwise ./configs/vss.*
//	                           then $HOME/.vss/vss.* are searched
//	"logger" (vss.Logger)      custom logger; defaults to a fresh logrus.Logger
//	"endpoint" (string)        overrides the configured server endpoint
func NewManager(userCfg map[string]interface{}) (*VssManager, error) {
	var err error
	mgr := &VssManager{}

	if cfgPathRaw, ok := userCfg["config-file"]; ok {
		if cfgPath, ok := cfgPathRaw.(string); ok {
			err = mgr.initConfig(&cfgPath)
		} else {
			return nil, errors.New("option 'config-file' must be of type string")
		}
	} else {
		err = mgr.initConfig(nil)
	}
	if err != nil {
		return nil, err
	}

	if loggerRaw, ok := userCfg["logger"]; ok {
		if logger, ok := loggerRaw.(vss.Logger); ok {
			mgr.Logger = logger
		} else {
			return nil, errors.New("option 'logger' must satisfy vss.Logger")
		}
	} else {
		mgr.Logger = logrus.New()
	}

	if endpointRaw, ok := userCfg["endpoint"]; ok {
		if endpoint, ok := endpointRaw.(string); ok {
			mgr.Cfg.Set("endpoint", endpoint)
		} else {
			return nil, errors.New("option 'endpoint' must be of type string")
		}
	}

	mgr.Client, err = vss.NewFromConfig(mgr.Logger.WithField("module", "vss"), mgr.Cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to initialize vss client")
	}

	return mgr, nil
}

func (self *VssManager) initConfig(cfgPath *string) error {
	// This is a private viper context just for vss (so as not to conflict
	// with the importer's usage).
	self.Cfg = viper.New()

	self.Cfg.SetDefault("endpoint", "http://localhost:8080")
	self.Cfg.SetDefault("timeout", "30s")
	self.Cfg.SetDefault("retry.max-attempts", 10)
	self.Cfg.SetDefault("retry.base-delay", "100ms")
	self.Cfg.SetDefault("retry.jitter", 0.25)

	// Order of precedence: ENV, vss.yaml, defaults above.
	self.Cfg.BindEnv("endpoint", "VSS_ENDPOINT")

	if cfgPath != nil {
		// Use config file from the flag.
		self.Cfg.SetConfigFile(*cfgPath)
		if err := self.Cfg.ReadInConfig(); err != nil {
			return errors.Wrap(err, "Failed to load config")
		}
		return nil
	}

	// Default search path is ./configs/vss.* then ~/.vss/vss.* (* can be
	// json, yaml, etc). Running without any config file is fine; the
	// defaults stand.
	self.Cfg.AddConfigPath("./configs")
	if home, err := homedir.Dir(); err == nil {
		self.Cfg.AddConfigPath(home + "/.vss")
	}
	self.Cfg.SetConfigName("vss")

	if err := self.Cfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "Failed to load config")
		}
	}
	return nil
}
