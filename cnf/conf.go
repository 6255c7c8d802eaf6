// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/corpstat/cql"
	"github.com/czcorpus/corpstat/engine"
	"github.com/czcorpus/corpstat/storage"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltListenAddress          = "127.0.0.1"
	dfltListenPort             = 8090
	dfltTimeZone               = "Europe/Prague"
	dfltMaxUploadSizeMB        = 20
)

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string             `json:"listenAddress"`
	ListenPort             int                `json:"listenPort"`
	ServerReadTimeoutSecs  int                `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string           `json:"corsAllowedOrigins"`
	Corpora                engine.CorporaConf `json:"corpora"`
	Storage                storage.Conf       `json:"storage"`
	CacheSize              int                `json:"cacheSize"`
	MaxUploadSizeMB        int                `json:"maxUploadSizeMB"`
	Metrics                bool               `json:"metrics"`
	Query                  cql.QueryGen       `json:"query"`
	LogFile                string             `json:"logFile"`
	LogLevel               logging.LogLevel   `json:"logLevel"`
	TimeZone               string             `json:"timeZone"`

	srcPath string
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call ValidateAndDefaults
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

func (conf *Conf) MaxUploadSize() int64 {
	return int64(conf.MaxUploadSizeMB) * 1024 * 1024
}

func LoadConfig(path string) (*Conf, error) {
	if path == "" {
		return nil, fmt.Errorf("cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	var conf Conf
	conf.srcPath = path
	if err := json.Unmarshal(rawData, &conf); err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	return &conf, nil
}

func ValidateAndDefaults(conf *Conf) error {
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Warn().Msgf("listenAddress not specified, using default: %s", dfltListenAddress)
	}
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Msgf("listenPort not specified, using default: %d", dfltListenPort)
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.CacheSize <= 0 {
		conf.CacheSize = engine.DefaultCacheSize
		log.Warn().Msgf("cacheSize not specified, using default: %d", engine.DefaultCacheSize)
	}
	if conf.MaxUploadSizeMB <= 0 {
		conf.MaxUploadSizeMB = dfltMaxUploadSizeMB
		log.Warn().Msgf("maxUploadSizeMB not specified, using default: %d", dfltMaxUploadSizeMB)
	}
	if err := conf.Corpora.ValidateAndDefaults("corpora"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := conf.Storage.ValidateAndDefaults("storage"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	return nil
}
