// Package pkg provides the core libraries for piesweep, an engine for
// animated, touchable pie and donut charts.
//
// # Overview
//
// A chart is planned once from a dataset and a configuration, then drawn
// frame by frame onto a surface. The pkg directory is organized into:
//
//  1. [pie] - Domain logic (geometry planning, hit testing, sweep and float
//     animation, the render pipeline)
//  2. [anim] - Clock and timeline that drive animations
//  3. [config], [dataset] - Chart parameters and input records
//  4. [render] - Surfaces and format conversion (SVG, PNG, PDF, JSON)
//  5. [pipeline] - Orchestration (load → plan → play → render) with caching
//  6. [session], [cache] - Infrastructure for long-lived charts and artifacts
//
// # Architecture
//
// The typical data flow through piesweep:
//
//	CSV / JSON / YAML records
//	         ↓
//	    [dataset] package (parse and validate)
//	         ↓
//	    [pie] package (plan slices, run sweep and touch)
//	         ↓
//	    [render/sink] package (draw onto a surface)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Render the final frame of a chart:
//
//	import (
//	    "github.com/matzehuels/piesweep/pkg/config"
//	    "github.com/matzehuels/piesweep/pkg/pie"
//	    "github.com/matzehuels/piesweep/pkg/render/sink"
//	)
//
//	cfg := config.Default()
//	cfg.AnimatePie = false
//
//	chart := pie.New(pie.WithConfig(cfg))
//	chart.SetData([]pie.Entry{
//	    {ID: "rent", Label: "Rent", Value: 1200},
//	    {ID: "food", Label: "Food", Value: 400, Style: 1},
//	})
//	chart.SetSize(400, 400, pie.Padding{})
//	if err := chart.Prepare(); err != nil {
//	    return err
//	}
//	svg, err := sink.RenderSVG(chart, 400, 400)
//
// For files, caching and scripted frames use [pipeline.Runner]; for charts
// that live across requests use [session].
//
// # Errors
//
// Every package reports failures through [errors], whose codes map onto CLI
// messages and HTTP statuses.
//
// [pie]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/pie
// [anim]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/anim
// [config]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/config
// [dataset]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/dataset
// [render]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/cache
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/render/sink
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/pipeline#Runner
// [errors]: https://pkg.go.dev/github.com/matzehuels/piesweep/pkg/errors
package pkg
