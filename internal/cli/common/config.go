package common

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig reads the service config file into a fresh viper instance.
func LoadConfig(path string) (*viper.Viper, error) {
	if path == "" {
		return nil, fmt.Errorf("--config required")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// DataSource extracts the database DSN, tolerating a missing section.
func DataSource(v *viper.Viper) string {
	return v.GetString("database.datasource")
}
