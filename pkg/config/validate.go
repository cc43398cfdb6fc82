package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/classifier"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/discovery"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/mapping"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/season"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report koanf key names in messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("koanf"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks field constraints first, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.New(errors.ValidationError, "Invalid configuration", describe(err), errors.ErrInvalidConfig)
	}

	if _, err := c.Seasons(); err != nil {
		return errors.New(errors.ValidationError, "Invalid season range", err.Error(), errors.ErrInvalidSeason)
	}
	set, err := c.EventTypeSet()
	if err != nil {
		return errors.New(errors.ValidationError, "Invalid event types", err.Error(), errors.ErrInvalidConfig)
	}
	q, err := c.QuotaConfig()
	if err != nil {
		return errors.New(errors.ValidationError, "Invalid quota", err.Error(), errors.ErrInvalidQuota)
	}
	if err := checkReachable(q, classifier.New(c.UnmatchedPolicy()), set); err != nil {
		return errors.New(errors.ValidationError, "Invalid quota", err.Error(), errors.ErrInvalidQuota)
	}
	return nil
}

// checkReachable rejects per-category caps the classifier can never fill.
func checkReachable(q discovery.QuotaConfig, cl classifier.Classifier, set model.EventTypeSet) error {
	if q.Policy != discovery.PerCategoryQuota {
		return nil
	}
	var bad []string
	for cat, n := range q.PerCategory {
		if n > 0 && !cl.Reachable(cat, set) {
			bad = append(bad, string(cat))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	sort.Strings(bad)
	return fmt.Errorf("quota.per_category: no event can fill %s with event_types and unmatched_field_goals as configured", strings.Join(bad, ", "))
}

// ValidateDiscovery adds the rules only discovery needs.
func (c *Config) ValidateDiscovery() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Players) == 0 {
		return errors.New(errors.ValidationError, "Invalid configuration", "players: at least one player is required", errors.ErrInvalidConfig)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.stats.base_url"; drop the root type.
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", ns, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", ns, fe.Tag()))
		}
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// Seasons expands the configured range into labels.
func (c *Config) Seasons() ([]string, error) {
	return season.Range(c.Season.Start, c.Season.End)
}

// EventTypeSet parses the allowed event types.
func (c *Config) EventTypeSet() (model.EventTypeSet, error) {
	return model.ParseEventTypeSet(c.EventTypes)
}

// QuotaConfig converts the quota settings for the orchestrator.
func (c *Config) QuotaConfig() (discovery.QuotaConfig, error) {
	policy, err := discovery.ParseQuotaPolicy(c.Quota.Policy)
	if err != nil {
		return discovery.QuotaConfig{}, err
	}
	q := discovery.QuotaConfig{Policy: policy, Total: c.Quota.Total}

	switch policy {
	case discovery.GlobalQuota:
		if c.Quota.Total <= 0 {
			return q, fmt.Errorf("quota.total must be positive for the global policy")
		}
	case discovery.PerCategoryQuota:
		q.PerCategory = make(map[model.Category]int, len(c.Quota.PerCategory))
		for name, n := range c.Quota.PerCategory {
			cat, err := model.ParseCategory(name)
			if err != nil {
				return q, err
			}
			q.PerCategory[cat] = n
		}
		sum := 0
		for _, n := range q.PerCategory {
			sum += n
		}
		if sum == 0 {
			return q, fmt.Errorf("quota.per_category needs at least one positive count")
		}
	}
	return q, nil
}

// UnmatchedPolicy is the classifier policy for field goals without "3PT".
func (c *Config) UnmatchedPolicy() classifier.UnmatchedPolicy {
	p, _ := classifier.ParseUnmatchedPolicy(c.UnmatchedFieldGoals)
	return p
}

// MappingModeValue is the parsed mapping_mode.
func (c *Config) MappingModeValue() mapping.Mode {
	m, _ := mapping.ParseMode(c.MappingMode)
	return m
}

// FlushModeValue is the parsed flush_mode.
func (c *Config) FlushModeValue() discovery.FlushMode {
	m, _ := discovery.ParseFlushMode(c.FlushMode)
	return m
}
