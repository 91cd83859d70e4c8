package valueobjects

import (
	"errors"
	"fmt"
	"strings"
)

var ErrIncompleteConfiguration = errors.New("incomplete resource configuration")

// ResourceConfiguration describes a virtual server as chosen in the editor.
// Two configurations with equal fields are interchangeable; compare with ==.
type ResourceConfiguration struct {
	Location        Location
	OperatingSystem OperatingSystem
	Cores           int
	RAMGb           int
	StorageGb       int
	BillingPeriod   BillingPeriod
}

// NewResourceConfiguration parses the enumerated fields and checks that the
// configuration is structurally complete. Quantity ranges are a tariff concern.
func NewResourceConfiguration(location, os string, cores, ramGb, storageGb int, billing string) (ResourceConfiguration, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return ResourceConfiguration{}, err
	}
	sys, err := ParseOperatingSystem(os)
	if err != nil {
		return ResourceConfiguration{}, err
	}
	period, err := ParseBillingPeriod(billing)
	if err != nil {
		return ResourceConfiguration{}, err
	}

	c := ResourceConfiguration{
		Location:        loc,
		OperatingSystem: sys,
		Cores:           cores,
		RAMGb:           ramGb,
		StorageGb:       storageGb,
		BillingPeriod:   period,
	}
	if err := c.CheckComplete(); err != nil {
		return ResourceConfiguration{}, err
	}
	return c, nil
}

// CheckComplete reports missing enumerations or non-positive quantities.
func (c ResourceConfiguration) CheckComplete() error {
	var missing []string
	if c.Location == "" {
		missing = append(missing, "location")
	}
	if c.OperatingSystem == "" {
		missing = append(missing, "operatingSystem")
	}
	if c.Cores <= 0 {
		missing = append(missing, "cores")
	}
	if c.RAMGb <= 0 {
		missing = append(missing, "ramGb")
	}
	if c.StorageGb <= 0 {
		missing = append(missing, "storageGb")
	}
	if !c.BillingPeriod.IsValid() {
		missing = append(missing, "billingPeriod")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// WithBillingPeriod returns a copy billed over p.
func (c ResourceConfiguration) WithBillingPeriod(p BillingPeriod) ResourceConfiguration {
	c.BillingPeriod = p
	return c
}

// Summary renders "VPS 4 vCPU / 8GB RAM".
func (c ResourceConfiguration) Summary() string {
	return fmt.Sprintf("VPS %d vCPU / %dGB RAM", c.Cores, c.RAMGb)
}
