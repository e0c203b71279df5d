package scenario

import (
	"fmt"

	"sptr"
)

// Scenario is a named, deterministic ownership workload. Scenarios verify
// the handle contracts from the inside (use counts at every step) while
// the ledger verifies them from the outside (exactly-once disposal).
type Scenario struct {
	Name    string
	Summary string
	run     func(*instance) error
}

var registry = []Scenario{
	{
		Name:    "unique-handoff",
		Summary: "move one exclusive owner through a relay of slots",
		run:     runUniqueHandoff,
	},
	{
		Name:    "shared-fanout",
		Summary: "clone aliases of one object, drop them in reverse order",
		run:     runSharedFanout,
	},
	{
		Name:    "shared-churn",
		Summary: "seeded mix of clone, copy-assign, move and reset over a slot pool",
		run:     runSharedChurn,
	},
	{
		Name:    "mixed",
		Summary: "unique relays and shared fan-outs interleaved",
		run:     runMixed,
	},
}

// All returns every registered scenario in registration order.
func All() []Scenario {
	out := make([]Scenario, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, bool) {
	for _, sc := range registry {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

func runUniqueHandoff(in *instance) error {
	var relay [2]sptr.Unique[Object]
	relay[0] = in.newUnique("courier")

	for hop := 0; hop < in.aliases; hop++ {
		src := &relay[hop%2]
		dst := &relay[(hop+1)%2]
		if !src.IsSet() {
			return fmt.Errorf("hop %d: source empty before move", hop)
		}
		in.moveUnique(dst, src)
		if src.IsSet() {
			return fmt.Errorf("hop %d: moved-from owner still set", hop)
		}
		if !dst.IsSet() {
			return fmt.Errorf("hop %d: destination empty after move", hop)
		}
	}

	holder := &relay[in.aliases%2]
	in.replaceUnique(holder, "courier")
	if !holder.IsSet() {
		return fmt.Errorf("owner empty after replace")
	}
	in.dropUnique(holder)
	if holder.IsSet() {
		return fmt.Errorf("owner still set after drop")
	}
	return nil
}

func runSharedFanout(in *instance) error {
	root := in.newShared("widget")

	clones := make([]sptr.Shared[Object], in.aliases)
	for i := range clones {
		clones[i] = in.clone(&root)
		if err := expectCount(&root, i+2); err != nil {
			return fmt.Errorf("after clone %d: %w", i, err)
		}
	}
	in.ledger.Expect(root.Get().ID(), root.UseCount())

	// Drop in reverse creation order, mirroring scoped destruction.
	for i := len(clones) - 1; i >= 0; i-- {
		in.dropShared(&clones[i])
		if err := expectCount(&root, i+1); err != nil {
			return fmt.Errorf("after drop %d: %w", i, err)
		}
	}
	if !root.IsUnique() {
		return fmt.Errorf("root not unique after dropping every clone")
	}
	in.dropShared(&root)
	return nil
}

func runSharedChurn(in *instance) error {
	slots := make([]sptr.Shared[Object], in.aliases)
	steps := in.aliases * 16

	for step := 0; step < steps; step++ {
		i := in.rng.Intn(len(slots))
		j := in.rng.Intn(len(slots))

		switch in.rng.Intn(5) {
		case 0:
			in.replaceShared(&slots[i], "churn")
		case 1:
			in.dropShared(&slots[i])
		case 2:
			if i != j {
				in.copyAssign(&slots[i], &slots[j])
			}
		case 3:
			if i != j {
				in.moveAssign(&slots[i], &slots[j])
			}
		case 4:
			if slots[i].IsSet() {
				c := in.clone(&slots[i])
				in.dropShared(&c)
			}
		}

		// The ledger must agree with every live slot after every step.
		for k := range slots {
			if slots[k].IsSet() {
				in.ledger.Expect(slots[k].Get().ID(), slots[k].UseCount())
			}
		}
	}

	for k := range slots {
		in.dropShared(&slots[k])
	}
	return nil
}

func runMixed(in *instance) error {
	if err := runUniqueHandoff(in); err != nil {
		return err
	}
	if err := runSharedFanout(in); err != nil {
		return err
	}
	return runSharedChurn(in)
}
