package ports

import "github.com/hiveml/hivehost/domain/entities"

// ConfigParser parses raw host configuration bytes.
type ConfigParser interface {
	Parse(data []byte) (*entities.HostConfig, error)
}
