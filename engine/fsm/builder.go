package fsm

import "fmt"

// AddState adds a node to the machine manually
// Useful for constructing the graph programmatically instead of from TOML
func (m *Machine[T]) AddState(name string) *Node[T] {
	if id, ok := m.names[name]; ok {
		return m.nodes[id]
	}
	id := StateID(len(m.nodes) + 1)
	node := &Node[T]{
		ID:          id,
		Name:        name,
		Transitions: make([]Transition[T], 0),
		OnEnter:     make([]Action[T], 0),
		OnExit:      make([]Action[T], 0),
	}
	m.nodes[id] = node
	m.names[name] = id
	return node
}

// AddTransition adds an event transition to a specific node
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) {
	if node, ok := m.nodes[sourceID]; ok {
		node.Transitions = append(node.Transitions, t)
	}
}

// SetRegion declares a region and its initial state, replacing any previous declaration
func (m *Machine[T]) SetRegion(name string, initial StateID) error {
	if _, ok := m.nodes[initial]; !ok {
		return fmt.Errorf("region '%s': initial state ID %d not found", name, initial)
	}
	if _, exists := m.regionInitials[name]; !exists {
		m.regionOrder = insertSorted(m.regionOrder, name)
	}
	m.regionInitials[name] = initial
	return nil
}

// insertSorted keeps region iteration deterministic
func insertSorted(s []string, v string) []string {
	i := 0
	for i < len(s) && s[i] < v {
		i++
	}
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
