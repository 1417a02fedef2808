package screen

import (
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
)

type PropertyInput struct {
	Key   string `form:"key" label:"Property key" validate:"notblank,max=100"`
	Value string `form:"value"`
}

// parse validates the key and reads the value as JSON when it is valid
// JSON, as a plain string otherwise.
func (p PropertyInput) parse() (string, domain.Value, error) {
	p.Key = strings.TrimSpace(p.Key)
	if err := validate.Struct(p); err != nil {
		return "", domain.Value{}, err
	}
	return p.Key, domain.ParseValue(p.Value), nil
}

func propertyKey(key string) (string, error) {
	in := PropertyInput{Key: strings.TrimSpace(key)}
	if err := validate.Struct(in); err != nil {
		return "", err
	}
	return in.Key, nil
}
