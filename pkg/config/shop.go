package config

import (
	"fmt"
	"strings"
)

// ShopConfig holds the shelf settings of the shop service.
type ShopConfig struct {
	Capacity int `koanf:"capacity"`
}

// String returns a string representation of the ShopConfig.
func (c *ShopConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shop ---\n")
	b.WriteString(fmt.Sprintf("  capacity: %d\n", c.Capacity))
	return b.String()
}

func (c *ShopConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("invalid shop capacity: %d", c.Capacity)
	}
	return nil
}
