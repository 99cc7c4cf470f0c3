package heddle_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
)

// ExampleNew builds a two-operator graph and recomputes it.
func ExampleNew() {
	ctx := context.Background()
	ws := heddle.New()

	seed, err := ws.AddOperator(ctx, "twill", operator.Params{"up": 2, "down": 2})
	if err != nil {
		log.Fatal(err)
	}
	flip, err := ws.AddOperator(ctx, "flip-vertical", nil)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := ws.Connect(ctx, seed, flip, 0); err != nil {
		log.Fatal(err)
	}
	if err := ws.RecomputeAll(ctx); err != nil {
		log.Fatal(err)
	}

	d, _ := ws.Draft(ws.Outputs(flip)[0])
	fmt.Println(d)
	// Output:
	// flip-vertical(twill) [4x4]
	// x..x
	// ..xx
	// .xx.
	// xx..
}

// ExampleWorkspace_InvokeStandalone steps a single pipe operator, the way a loom
// pedal bridge advances one transformation per press.
func ExampleWorkspace_InvokeStandalone() {
	ws := heddle.New()
	current := draft.MustPattern("x...")

	for i := 0; i < 3; i++ {
		next, err := ws.InvokeStandalone(context.Background(), "shift", current, operator.Params{"amount": 1})
		if err != nil {
			log.Fatal(err)
		}
		current = next
		fmt.Println(current.Pattern()[0])
	}
	// Output:
	// .x..
	// ..x.
	// ...x
}
