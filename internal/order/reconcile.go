package order

import "sort"

// Reconcile compares the desired order for one side of one market against the
// resting orders the venue reports for that side and emits the minimal
// mutations to converge them. desired == nil means no order should rest.
//
// Price and amount comparisons are exact: every value is rounded to venue
// precision before it reaches here, so any difference is material and
// triggers a replace. More than one resting order on a side is a repair
// case: the lowest-id order is kept (replaced or left as-is) and the rest
// are cancelled.
func Reconcile(desired *Desired, open []Open) []Action {
	if len(open) == 0 {
		if desired == nil {
			return nil
		}
		return []Action{{Type: Place, Order: *desired}}
	}

	sorted := make([]Open, len(open))
	copy(sorted, open)
	sort.SliceStable(sorted, func(i, j int) bool {
		return idLess(sorted[i].ID, sorted[j].ID)
	})

	var actions []Action
	keep := sorted[0]

	if desired == nil {
		for _, o := range sorted {
			actions = append(actions, cancelAction(o))
		}
		return actions
	}

	if keep.Price == desired.Price && keep.Amount == desired.Amount {
		actions = append(actions, Action{Type: NoOp, OrderID: keep.ID, Order: *desired})
	} else {
		actions = append(actions, Action{Type: Replace, OrderID: keep.ID, Order: *desired})
	}

	for _, o := range sorted[1:] {
		actions = append(actions, cancelAction(o))
	}
	return actions
}

func cancelAction(o Open) Action {
	return Action{
		Type:    Replace,
		OrderID: o.ID,
		Order:   Desired{Side: o.Side, Price: o.Price, Amount: 0},
	}
}

// Lowest returns the resting order with the lowest ID. The slice must not be
// empty.
func Lowest(open []Open) Open {
	keep := open[0]
	for _, o := range open[1:] {
		if idLess(o.ID, keep.ID) {
			keep = o
		}
	}
	return keep
}

// BySide splits resting orders per side.
func BySide(open []Open) (buys, sells []Open) {
	for _, o := range open {
		switch o.Side {
		case Buy:
			buys = append(buys, o)
		case Sell:
			sells = append(sells, o)
		}
	}
	return buys, sells
}

// Mutations filters out NoOp actions, leaving only what must be submitted.
func Mutations(actions []Action) []Action {
	var out []Action
	for _, a := range actions {
		if a.Type != NoOp {
			out = append(out, a)
		}
	}
	return out
}
