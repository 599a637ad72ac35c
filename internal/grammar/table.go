package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
)

// ruleState is an LR item: "in rule Rule, the dot sits before Steps[Step]"
// (or at the end, if Step == len(Steps)).
type ruleState struct {
	rule int
	step int
}

func (s ruleState) String() string { return fmt.Sprintf("%d.%d", s.rule, s.step) }

// Row is one entry of the precomputed lookup table. A row is either a
// shift/goto (NextState >= 0) or a reduce (Reduce >= 0, NextState == -1);
// never both, never neither. Token is empty for a row that applies to any
// token in the enclosing state's token group -- the product of the row
// simplification pass described below.
type Row struct {
	State      int
	Token      string
	NextState  int
	Reduce     int // index into Table.Rules, or -1
	// TokenGroup is only meaningful on a shift row: it names what is legal
	// at the state the shift lands in, since that governs the lexer's
	// *next* fetch, not this row's own token. Reduce rows leave it -1; the
	// parser never reads TokenGroup except right after a shift.
	TokenGroup int
}

// Table is a complete precomputed LR lookup table: for every reachable
// (state, token) pair, at most one Row says what to do.
type Table struct {
	Rules       []Rule // rules[0] is the synthetic start rule
	Rows        []Row
	TokenGroups [][]string // index 0 is always the start symbol's first set

	lookup map[[2]string]Row // keyed by [2]string{itoa(state), token}
}

// Action returns the row governing state and token, and whether one
// exists. An empty-Token wildcard row registered for state is returned for
// any token when no exact-token row matches.
func (t *Table) Action(state int, token string) (Row, bool) {
	if row, ok := t.lookup[[2]string{itoa(state), token}]; ok {
		return row, true
	}
	if row, ok := t.lookup[[2]string{itoa(state), ""}]; ok {
		return row, true
	}
	return Row{}, false
}

func itoa(i int) string { return fmt.Sprintf("%d", i) }

// String renders the table as a fixed-width grid for debugging, in the
// style of the teacher's canonicalLR1Table.String().
func (t *Table) String() string {
	headers := []string{"state", "token", "action", "group"}
	var rows [][]string
	for _, r := range t.Rows {
		tok := r.Token
		if tok == "" {
			tok = "*"
		}
		action := ""
		if r.NextState >= 0 {
			action = fmt.Sprintf("shift/goto %d", r.NextState)
		} else {
			action = fmt.Sprintf("reduce %s", t.Rules[r.Reduce].Name)
		}
		rows = append(rows, []string{itoa(r.State), tok, action, itoa(r.TokenGroup)})
	}
	return rosed.Edit("").
		InsertTableOpts(0, append([][]string{headers}, rows...), 100, rosed.Options{}).
		String()
}

// closure expands seed items by adding, for every item whose dot sits
// before a nonterminal, one zero-step item per production of that
// nonterminal -- and records, for every item added this way, which item(s)
// produced it.
func closure(seed []ruleState, rules []Rule, ruleMap map[string][]int) ([]ruleState, map[ruleState][]ruleState) {
	seen := map[ruleState]bool{}
	parents := map[ruleState][]ruleState{}
	var order []ruleState
	queue := append([]ruleState{}, seed...)

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true
		order = append(order, s)

		r := rules[s.rule]
		if s.step >= len(r.Steps) {
			continue
		}
		sym := r.Steps[s.step]
		idxs, ok := ruleMap[sym]
		if !ok {
			continue
		}
		for _, ri := range idxs {
			ns := ruleState{ri, 0}
			parents[ns] = append(parents[ns], s)
			if !seen[ns] {
				queue = append(queue, ns)
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].rule != order[j].rule {
			return order[i].rule < order[j].rule
		}
		return order[i].step < order[j].step
	})
	return order, parents
}

// stateSetKey canonicalizes a closure's item set into a string suitable for
// use as a map key, so that two syntactically different derivations of the
// same item set are recognized as the same DFA state.
func stateSetKey(states []ruleState) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = s.String()
	}
	return strings.Join(parts, "|")
}

// getFirstTokens returns the first-set of name: if name is not a rule
// name, it is a literal terminal and its first-set is itself; otherwise it
// is the union of the first-sets of the first step of every rule with that
// name. A visiting set guards against runaway recursion through a
// left-recursive rule (such as jqx's op_dot_expr -> op_dot_expr
// access_node): the recursive occurrence contributes nothing, and the
// name's other rules supply its first-set.
func getFirstTokens(name string, rules []Rule, ruleMap map[string][]int, memo map[string][]string, visiting map[string]bool) []string {
	if cached, ok := memo[name]; ok {
		return cached
	}
	idxs, ok := ruleMap[name]
	if !ok {
		return []string{name}
	}
	if visiting[name] {
		return nil
	}
	visiting[name] = true

	seen := map[string]bool{}
	var out []string
	for _, ri := range idxs {
		r := rules[ri]
		if len(r.Steps) == 0 {
			continue
		}
		for _, tok := range getFirstTokens(r.Steps[0], rules, ruleMap, memo, visiting) {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	delete(visiting, name)
	memo[name] = out
	return out
}

// followTokensFor computes the set of terminals that may legally appear
// immediately after state within the closure it belongs to. If state still
// has steps remaining after its own dot position, the answer is simply the
// first-set of the next symbol. Otherwise the answer is inherited from
// every item anywhere in the grammar whose next symbol is state's own
// nonterminal -- computed recursively, with the result slot populated with
// an empty set before recursing so that a cycle (mutually recursive rules)
// resolves to an empty contribution instead of looping forever.
func followTokensFor(state ruleState, rules []Rule, ruleMap map[string][]int, parents map[ruleState][]ruleState, firstMemo map[string][]string, result map[ruleState]map[string]bool) map[string]bool {
	if set, ok := result[state]; ok {
		return set
	}
	set := map[string]bool{}
	result[state] = set

	r := rules[state.rule]
	if state.step+1 < len(r.Steps) {
		for _, tok := range getFirstTokens(r.Steps[state.step+1], rules, ruleMap, firstMemo, map[string]bool{}) {
			set[tok] = true
		}
		return set
	}
	for ri, pr := range rules {
		for si, sym := range pr.Steps {
			if sym != r.Name {
				continue
			}
			for tok := range followTokensFor(ruleState{ri, si}, rules, ruleMap, parents, firstMemo, result) {
				set[tok] = true
			}
		}
	}
	return set
}

// dfaState is one node of the table-construction automaton: a canonical,
// closed item set together with its id and the parent links its closure
// recorded. perToken, legalTokens, and
// isAccept are filled in by Build's first pass, before any row is emitted,
// so that the second pass can look up what is legal at a transition's
// *destination* state regardless of the order states were discovered in.
type dfaState struct {
	id      int
	items   []ruleState
	parents map[ruleState][]ruleState

	perToken    map[string]action
	legalTokens []string
	isAccept    bool
}

// action records what state st does on one particular token: shift into
// nextState, or reduce by rule index reduce.
type action struct {
	isShift   bool
	nextState int
	reduce    int
}

// Build constructs the full lookup table for g, rooted at g.Start. It
// returns a GrammarError-wrapped error (via the caller; Build itself
// returns a plain error, internal/lang attaches the jqxerr kind) if two
// actions are required for the same (state, token) pair and cannot be
// resolved -- a genuine shift/reduce or reduce/reduce conflict.
func Build(g Grammar) (*Table, error) {
	rules := make([]Rule, 0, len(g.Rules)+1)
	rules = append(rules, Rule{
		Name:  "MAIN",
		Steps: []string{g.Start, "END"},
		Reduce: func(elems []interface{}) interface{} {
			return elems[0]
		},
	})
	rules = append(rules, g.Rules...)
	ruleMap := buildRuleMap(rules)

	firstMemo := map[string][]string{}

	statesByKey := map[string]int{}
	var states []*dfaState
	var table Table
	table.Rules = rules

	groupsByKey := map[string]int{}
	var groups [][]string

	registerGroup := func(tokens []string) int {
		cp := append([]string(nil), tokens...)
		sort.Strings(cp)
		key := strings.Join(cp, ",")
		if id, ok := groupsByKey[key]; ok {
			return id
		}
		id := len(groups)
		groups = append(groups, cp)
		groupsByKey[key] = id
		return id
	}

	getOrMakeState := func(seed []ruleState) int {
		items, parents := closure(seed, rules, ruleMap)
		key := stateSetKey(items)
		if id, ok := statesByKey[key]; ok {
			return id
		}
		id := len(states)
		statesByKey[key] = id
		states = append(states, &dfaState{id: id, items: items, parents: parents})
		return id
	}

	startID := getOrMakeState([]ruleState{{0, 0}})
	if startID != 0 {
		return nil, fmt.Errorf("grammar: internal error, start state did not get id 0")
	}

	// Pass 1: BFS over the automaton, discovering every reachable state and
	// computing each one's own per-token action set. states is appended to
	// as new item sets are discovered, so ranging by index (not a fixed
	// slice) reaches them all -- including states only reachable via a
	// nonterminal goto, which this pass also walks into (the actual goto
	// rows are emitted in pass 2, once every state's legalTokens is known).
	for i := 0; i < len(states); i++ {
		st := states[i]

		// The accept state: MAIN (rule 0) fully matched, nothing else
		// possible. MAIN appears in no rule's steps, so followTokensFor
		// finds nothing that can follow it -- it needs no lookahead at
		// all, so it gets an unconditional wildcard reduce instead of
		// going through the normal per-token machinery.
		if len(st.items) == 1 && st.items[0].rule == 0 && st.items[0].step == len(rules[0].Steps) {
			st.isAccept = true
			continue
		}

		follow := map[ruleState]map[string]bool{}

		// collect dot-symbols eligible for shift/goto
		bySymbol := map[string][]ruleState{}
		for _, s := range st.items {
			r := rules[s.rule]
			if s.step < len(r.Steps) {
				sym := r.Steps[s.step]
				bySymbol[sym] = append(bySymbol[sym], s.nextStep())
			}
		}

		// collect reduce candidates per lookahead terminal
		reduceByToken := map[string][]int{}
		for _, s := range st.items {
			r := rules[s.rule]
			if s.step != len(r.Steps) {
				continue
			}
			for tok := range followTokensFor(s, rules, ruleMap, st.parents, firstMemo, follow) {
				reduceByToken[tok] = append(reduceByToken[tok], s.rule)
			}
		}

		perToken := map[string]action{}

		for sym, advanced := range bySymbol {
			if isNonterminal(sym, ruleMap) {
				getOrMakeState(advanced) // discover the goto target now
				continue
			}
			if _, conflict := reduceByToken[sym]; conflict {
				return nil, fmt.Errorf("grammar: shift/reduce conflict on token %q in state %d", sym, st.id)
			}
			perToken[sym] = action{isShift: true, nextState: getOrMakeState(advanced)}
		}
		for tok, rs := range reduceByToken {
			if len(rs) > 1 {
				return nil, fmt.Errorf("grammar: reduce/reduce conflict on token %q in state %d between rules %v", tok, st.id, rs)
			}
			if _, already := perToken[tok]; already {
				return nil, fmt.Errorf("grammar: shift/reduce conflict on token %q in state %d", tok, st.id)
			}
			perToken[tok] = action{reduce: rs[0]}
		}

		st.perToken = perToken
		legalTokens := make([]string, 0, len(perToken))
		for tok := range perToken {
			legalTokens = append(legalTokens, tok)
		}
		sort.Strings(legalTokens)
		st.legalTokens = legalTokens
	}

	// Group 0 must be the start state's own legal tokens: that is what
	// governs the very first lexer fetch, before the parser has consulted
	// any row at all.
	registerGroup(states[startID].legalTokens)

	// Pass 2: emit rows. Every state's legalTokens is now known, so a shift
	// row can be stamped with the token group legal at its *destination*
	// state -- the lexer restriction that actually governs the token coming
	// right after the shift -- rather than the state being left.
	for _, st := range states {
		if st.isAccept {
			table.Rows = append(table.Rows, Row{
				State: st.id, Token: "", NextState: -1, Reduce: 0, TokenGroup: -1,
			})
			continue
		}

		perToken := st.perToken

		// row simplification: if every token in this state maps to the
		// same single reduce action, one wildcard row suffices.
		if len(perToken) > 0 {
			first := ""
			uniform := true
			for tok, a := range perToken {
				if first == "" {
					first = tok
				}
				if a.isShift || a.reduce != perToken[first].reduce || perToken[first].isShift {
					uniform = false
					break
				}
			}
			if uniform {
				table.Rows = append(table.Rows, Row{
					State: st.id, Token: "", NextState: -1,
					Reduce: perToken[first].reduce, TokenGroup: -1,
				})
			} else {
				for tok, a := range perToken {
					row := Row{State: st.id, Token: tok}
					if a.isShift {
						row.NextState = a.nextState
						row.Reduce = -1
						row.TokenGroup = registerGroup(states[a.nextState].legalTokens)
					} else {
						row.NextState = -1
						row.Reduce = a.reduce
						row.TokenGroup = -1
					}
					table.Rows = append(table.Rows, row)
				}
			}
		}

		// gotos: always one row per nonterminal dot-symbol, keyed by its
		// name, looked up only right after a reduce (never by the lexer).
		bySymbol := map[string][]ruleState{}
		for _, s := range st.items {
			r := rules[s.rule]
			if s.step < len(r.Steps) {
				sym := r.Steps[s.step]
				bySymbol[sym] = append(bySymbol[sym], s.nextStep())
			}
		}
		for sym, advanced := range bySymbol {
			if !isNonterminal(sym, ruleMap) {
				continue
			}
			table.Rows = append(table.Rows, Row{
				State: st.id, Token: sym, NextState: getOrMakeState(advanced), Reduce: -1, TokenGroup: -1,
			})
		}
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		if table.Rows[i].State != table.Rows[j].State {
			return table.Rows[i].State < table.Rows[j].State
		}
		return table.Rows[i].Token < table.Rows[j].Token
	})

	table.TokenGroups = groups
	table.lookup = make(map[[2]string]Row, len(table.Rows))
	for _, r := range table.Rows {
		table.lookup[[2]string{itoa(r.State), r.Token}] = r
	}

	return &table, nil
}

func (s ruleState) nextStep() ruleState { return ruleState{s.rule, s.step + 1} }
