package taxonomy

// SeedNode describes a category of the default tree
type SeedNode struct {
	Name        string
	Description string
	Children    []SeedNode
}

// DefaultTree is the bootstrap taxonomy keyed by category type
var DefaultTree = []struct {
	Type  CategoryType
	Nodes []SeedNode
}{
	{
		Type: CategoryTypeForum,
		Nodes: []SeedNode{
			{
				Name:        "Crops",
				Description: "Discussions about various crops",
				Children: []SeedNode{
					{Name: "Wheat", Description: "Wheat cultivation"},
					{Name: "Rice", Description: "Rice farming"},
					{Name: "Cotton", Description: "Cotton farming"},
				},
			},
			{Name: "Livestock", Description: "Animal husbandry"},
			{Name: "Irrigation", Description: "Water management"},
			{Name: "Soil Health", Description: "Soil management"},
			{Name: "Pest Control", Description: "Pest management"},
		},
	},
	{
		Type: CategoryTypeBlog,
		Nodes: []SeedNode{
			{Name: "Success Stories", Description: "Farmer success stories"},
			{Name: "Techniques", Description: "Farming techniques"},
			{Name: "Weather Tips", Description: "Weather advice"},
			{Name: "Market Insights", Description: "Market trends"},
		},
	},
	{
		Type: CategoryTypeProduct,
		Nodes: []SeedNode{
			{Name: "Grains", Description: "Various grains"},
			{Name: "Vegetables", Description: "Fresh vegetables"},
			{Name: "Fruits", Description: "Seasonal fruits"},
			{Name: "Livestock Products", Description: "Animal products"},
		},
	},
}

// BuildDefaultCategories materializes DefaultTree in insertion order,
// parents before their children.
func BuildDefaultCategories() ([]*Category, error) {
	var out []*Category
	var walk func(parent *Category, t CategoryType, nodes []SeedNode) error
	walk = func(parent *Category, t CategoryType, nodes []SeedNode) error {
		for _, n := range nodes {
			var (
				c   *Category
				err error
			)
			if parent == nil {
				c, err = NewCategory(n.Name, n.Description, t)
			} else {
				c, err = NewChildCategory(n.Name, n.Description, parent)
			}
			if err != nil {
				return err
			}
			out = append(out, c)
			if err := walk(c, t, n.Children); err != nil {
				return err
			}
		}
		return nil
	}

	for _, group := range DefaultTree {
		if err := walk(nil, group.Type, group.Nodes); err != nil {
			return nil, err
		}
	}
	return out, nil
}
