package xdsm_test

import (
	"fmt"

	"github.com/matzehuels/xdsm/pkg/xdsm"
)

func ExampleDiagram_Layout() {
	d := xdsm.New(xdsm.DefaultConfig())
	d.AddSystem("opt", "Optimization", xdsm.Text(`\text{Optimizer}`))
	d.AddSystem("F", "Function", xdsm.Text("F"))
	_ = d.Connect("opt", "F", xdsm.Text("x"))
	_ = d.Connect("F", "opt", xdsm.Text("f"))
	d.AddInput("opt", xdsm.Text("x_0"))

	g, err := d.Layout()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			if n, ok := g.At(r, c); ok {
				fmt.Printf("(%d,%d) %s\n", r, c, n.Name)
			}
		}
	}
	// Output:
	// (0,0) output_opt
	// (1,0) opt
	// (1,1) opt-F
	// (2,0) F-opt
	// (2,1) F
}

func ExampleDiagram_Chains() {
	d := xdsm.New(xdsm.DefaultConfig())
	d.AddSystem("A", "Function", xdsm.Text("A"))
	d.AddSystem("B", "Function", xdsm.Text("B"))
	d.AddInput("A", xdsm.Text("a_0"))
	d.AddProcess([]string{"output_A", "A", "B"}, true)

	chains, err := d.Chains()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, link := range chains[0] {
		fmt.Println(link)
	}
	// Output:
	// \chainin (output_A);
	// \chainin (A) [join=by ProcessTipA];
	// \chainin (B) [join=by ProcessHVA];
}
