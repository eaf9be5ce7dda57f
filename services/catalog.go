package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"storefront-service/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

type menuFile struct {
	Items []struct {
		ID          int    `yaml:"id"`
		Name        string `yaml:"name"`
		Price       string `yaml:"price"`
		Description string `yaml:"description"`
	} `yaml:"items"`
}

// Catalog is the fixed menu. It is built once at startup and only read afterwards.
type Catalog struct {
	items []models.MenuItem
	byID  map[int]models.MenuItem
}

// LoadCatalog reads the menu from path, or the built-in menu when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultMenu)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("menu has no items")
	}

	c := &Catalog{
		items: make([]models.MenuItem, 0, len(file.Items)),
		byID:  make(map[int]models.MenuItem, len(file.Items)),
	}
	for _, raw := range file.Items {
		if _, dup := c.byID[raw.ID]; dup {
			return nil, fmt.Errorf("menu item %d: duplicate id", raw.ID)
		}
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return nil, fmt.Errorf("menu item %d: empty name", raw.ID)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(raw.Price))
		if err != nil {
			return nil, fmt.Errorf("menu item %d: invalid price %q", raw.ID, raw.Price)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("menu item %d: negative price", raw.ID)
		}

		item := models.MenuItem{
			ID:          raw.ID,
			Name:        name,
			Price:       price,
			Description: strings.TrimSpace(raw.Description),
		}
		c.items = append(c.items, item)
		c.byID[item.ID] = item
	}
	return c, nil
}

// Items returns the menu in display order.
func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Get(id int) (models.MenuItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}
