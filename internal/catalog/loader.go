package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/ragcost/internal/domain"
)

// plansFile is the on-disk shape of a pricing plan override file.
type plansFile struct {
	Plans []domain.PricingPlan `yaml:"plans"`
}

// LoadPlans reads pricing plans from a YAML file. Every plan is validated;
// a malformed plan table aborts startup rather than failing at query time.
func LoadPlans(path string) ([]domain.PricingPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	var file plansFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse plans file %s: %w", path, err)
	}

	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plans file %s: %w", path, domain.ErrInvalidPlan)
	}

	for _, plan := range file.Plans {
		if err := plan.Validate(); err != nil {
			return nil, fmt.Errorf("plans file %s: %w", path, err)
		}
	}

	return file.Plans, nil
}

// LoadLatencyModel reads latency tables from a YAML file and validates them.
func LoadLatencyModel(path string) (domain.LatencyModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.LatencyModel{}, fmt.Errorf("read latency file: %w", err)
	}

	var model domain.LatencyModel
	if err := yaml.Unmarshal(data, &model); err != nil {
		return domain.LatencyModel{}, fmt.Errorf("parse latency file %s: %w", path, err)
	}

	if err := model.Validate(); err != nil {
		return domain.LatencyModel{}, fmt.Errorf("latency file %s: %w", path, err)
	}

	return model, nil
}
