package layout_test

import (
	"fmt"

	"github.com/matzehuels/erdlayout/pkg/diagram"
	"github.com/matzehuels/erdlayout/pkg/layout"
)

func ExampleLayout_Run() {
	users := diagram.NewTable("users", "Users", 120, 40)
	orders := diagram.NewTable("orders", "Orders", 120, 40)
	items := diagram.NewTable("items", "Order items", 120, 40)

	l := layout.New(layout.DefaultConfig())
	for _, t := range []*diagram.Table{users, orders, items} {
		l.Add(layout.Node(t))
	}
	l.Add(layout.Edge(diagram.NewRelation(items, orders, nil)))
	l.Add(layout.Edge(diagram.NewRelation(orders, users, nil)))

	stats := l.Run()
	fmt.Println("Depth:", stats.Depth)
	for _, t := range []*diagram.Table{items, orders, users} {
		fmt.Println(t.ID(), t.Location().ToString())
	}
	// Output:
	// Depth: 2
	// items (0, 0)
	// orders (0, 140)
	// users (0, 280)
}

func ExampleNewContainer() {
	a := diagram.NewTable("a", "", 40, 20)
	b := diagram.NewTable("b", "", 40, 20)
	schema := diagram.NewTable("sales", "Sales schema", 0, 0)

	c := layout.NewContainer(schema, layout.Config{}, layout.UniformInsets(10), []layout.Object{
		layout.Node(a),
		layout.Node(b),
	})
	fmt.Println(c.Bounds().ToString())
	// Output:
	// {TopLeft: (0, 0), Width: 200, Height: 40}
}
