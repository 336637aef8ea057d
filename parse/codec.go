package parse

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/sablefin/lalrgen/grammar"
)

// tableRow and tableSnapshot are the portable, rezi-encodable projections of
// a Table: plain slices/maps of built-in types standing in for the live
// Grammar/Automaton pointers a Table otherwise carries, so a computed table
// can be persisted and reloaded without recomputing C1-C7 (spec §9 "the
// emitted parser holds ... stateTable, defaultActions").
type tableRow struct {
	Terms map[int]actionSnapshot
}

type actionSnapshot struct {
	Type       int
	State      int
	Production int
}

type tableSnapshot struct {
	Rows           []tableRow
	DefaultActions map[int]actionSnapshot
	Conflicts      int
}

func toSnapshot(act Action) actionSnapshot {
	return actionSnapshot{Type: int(act.Type), State: act.State, Production: int(act.Production)}
}

func fromSnapshot(s actionSnapshot) Action {
	return Action{Type: ActionType(s.Type), State: s.State, Production: grammar.ProdID(s.Production)}
}

// MarshalBinary encodes the table's action/goto rows and default-action map
// with rezi. Grammar and Automaton are not part of the encoding: a decoded
// Table must have them reattached by the caller (they are the inputs that
// produced it, not part of its own state).
func (t *Table) MarshalBinary() ([]byte, error) {
	snap := tableSnapshot{
		Rows:           make([]tableRow, len(t.rows)),
		DefaultActions: make(map[int]actionSnapshot, len(t.DefaultActions)),
		Conflicts:      t.Conflicts,
	}

	for i, row := range t.rows {
		terms := make(map[int]actionSnapshot, len(row))
		for sym, cell := range row {
			terms[int(sym)] = toSnapshot(cell.Action)
		}
		snap.Rows[i] = tableRow{Terms: terms}
	}
	for state, act := range t.DefaultActions {
		snap.DefaultActions[state] = toSnapshot(act)
	}

	return rezi.Enc(snap)
}

// UnmarshalBinary restores rows and default actions encoded by
// MarshalBinary. The caller must set Grammar and Automaton afterward; Grammar
// is required for String and ExpectedTerminals but not for Action/Goto
// lookups against the decoded rows. Retained alternatives and the
// Resolutions log are not part of the encoding, so a decoded Table reports
// no Ambiguities and zero resolutions and ambiguous cells in Stats.
func (t *Table) UnmarshalBinary(data []byte) error {
	var snap tableSnapshot
	if _, err := rezi.Dec(data, &snap); err != nil {
		return fmt.Errorf("parse: decode table: %w", err)
	}

	t.rows = make([]map[grammar.SymbolID]Cell, len(snap.Rows))
	for i, row := range snap.Rows {
		cells := make(map[grammar.SymbolID]Cell, len(row.Terms))
		for sym, act := range row.Terms {
			cells[grammar.SymbolID(sym)] = Cell{Action: fromSnapshot(act)}
		}
		t.rows[i] = cells
	}

	t.DefaultActions = make(map[int]Action, len(snap.DefaultActions))
	for state, act := range snap.DefaultActions {
		t.DefaultActions[state] = fromSnapshot(act)
	}

	t.Conflicts = snap.Conflicts
	return nil
}
