package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/flight-brief/internal/domain"
)

// hubFile is the on-disk layout of HUB_AIRPORTS_FILE.
//
//	hubs:
//	  - ZBAA
//	  - ZSPD
type hubFile struct {
	Hubs []string `yaml:"hubs"`
}

// LoadHubs resolves the hub set. A YAML file wins over the comma list, and
// the built-in list is used when neither is set. An empty result from either
// source is an error so the scorer never runs with no hubs by accident.
func LoadHubs(path, list string) (domain.HubSet, error) {
	switch {
	case path != "":
		return readHubFile(path)
	case strings.TrimSpace(list) != "":
		hubs := domain.NewHubSet(strings.Split(list, ",")...)
		if hubs.Len() == 0 {
			return domain.HubSet{}, errors.New("HUB_AIRPORTS has no codes")
		}
		return hubs, nil
	default:
		return domain.DefaultHubs(), nil
	}
}

func readHubFile(path string) (domain.HubSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.HubSet{}, fmt.Errorf("read HUB_AIRPORTS_FILE: %w", err)
	}

	var f hubFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.HubSet{}, fmt.Errorf("parse HUB_AIRPORTS_FILE: %w", err)
	}

	hubs := domain.NewHubSet(f.Hubs...)
	if hubs.Len() == 0 {
		return domain.HubSet{}, fmt.Errorf("HUB_AIRPORTS_FILE %s lists no hubs", path)
	}
	return hubs, nil
}
