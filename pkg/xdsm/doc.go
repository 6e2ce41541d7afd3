// Package xdsm builds Extended Design Structure Matrix diagrams and renders
// them as TikZ markup.
//
// # Overview
//
// An XDSM shows the components of a multidisciplinary design workflow on the
// diagonal of a matrix, the data they exchange in off-diagonal cells, and the
// order of execution as a process chain drawn over the top. This package
// accumulates a declarative description of such a workflow and turns it into
// two LaTeX artifacts: a standalone tikzpicture and a document that includes it.
//
// # Building a Diagram
//
//	d := xdsm.New(xdsm.DefaultConfig())
//	d.AddSystem("opt", "Optimization", xdsm.Text(`\text{Optimizer}`))
//	d.AddSystem("D1", "Function", xdsm.Text("D_1"))
//	d.AddSystem("F", "Function", xdsm.Lines("F", `\text{Functional}`))
//
//	if err := d.Connect("opt", "D1", xdsm.Text("x, z")); err != nil {
//	    return err
//	}
//	d.AddInput("D1", xdsm.Text("P_1"))
//	d.AddOutput("opt", xdsm.Text("x^*"), xdsm.SideRight)
//	d.AddProcess([]string{"opt", "D1", "opt"}, true)
//
//	doc, err := d.Render(xdsm.RenderOptions{TikZPath: "mdf.tikz"})
//
// # Layout
//
// [Diagram.Layout] places every system on the diagonal of a square grid in
// declaration order. Connection nodes go to (source row, target column).
// Input markers occupy an extra top row, left outputs an extra first column and
// right outputs an extra last column; each is added only when at least one
// marker of that kind exists.
//
// # Styles
//
// Style tags ("Function", "Optimization", "DataInter", ...) name TikZ styles
// defined in the embedded [StylesFile]. Modifiers such as [Stacked] and
// [Faded] are combined into the final style list at render time, always in the
// same order, so the output does not depend on the order options were passed.
//
// # Concurrency
//
// A Diagram is not safe for concurrent mutation. Rendering only reads the
// model, so a fully built Diagram may be rendered from several goroutines.
package xdsm
