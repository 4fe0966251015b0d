package engine

// rebuildGraph recomputes the full adjacency mapping over the current
// flight set. An edge A->B exists iff A's destination city equals B's
// departure city, A != B, and B departs at or after A arrives. The rebuild
// is a deliberate O(n²) cross product: flight sets here are small and
// mutations are rare relative to queries, and a wholesale rebuild keeps the
// edge rule in exactly one place. Callers must hold s.mu.
func (s *System) rebuildGraph() {
	graph := make(map[string][]string, len(s.flights))
	for _, f := range s.flights {
		graph[f.ID] = nil
	}
	for _, a := range s.flights {
		for _, b := range s.flights {
			if a.ID == b.ID {
				continue
			}
			if a.DestinationCity == b.DepartureCity && !b.DepartureAt().Before(a.ArrivalAt()) {
				graph[a.ID] = append(graph[a.ID], b.ID)
			}
		}
	}
	s.graph = graph
}

// Connections returns the identifiers of flights boardable immediately
// after the given flight, in store order, or ErrFlightNotFound.
func (s *System) Connections(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; !exists {
		return nil, ErrFlightNotFound
	}
	next := s.graph[id]
	out := make([]string, len(next))
	copy(out, next)
	return out, nil
}

// AlternateRoutes searches for itineraries from depCity to desCity using a
// multi-source breadth-first traversal seeded with every flight departing
// depCity. The visited set is shared across all seeds and paths: once a
// flight has been dequeued as part of any path, no other path traverses it
// again. This under-explores relative to a per-path visited set but bounds
// the output, and it is the search's contractual behavior, not an accident.
// Each returned route is a sequence of flight identifiers in travel order.
func (s *System) AlternateRoutes(depCity, desCity string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	type frontierEntry struct {
		id   string
		path []string
	}

	var queue []frontierEntry
	for _, f := range s.flights {
		if f.DepartureCity == depCity {
			queue = append(queue, frontierEntry{id: f.ID, path: []string{f.ID}})
		}
	}

	visited := make(map[string]bool)
	var routes [][]string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		if f, ok := s.byID[cur.id]; ok && f.DestinationCity == desCity {
			routes = append(routes, cur.path)
		}

		for _, next := range s.graph[cur.id] {
			if pathContains(cur.path, next) {
				continue
			}
			path := make([]string, len(cur.path)+1)
			copy(path, cur.path)
			path[len(cur.path)] = next
			queue = append(queue, frontierEntry{id: next, path: path})
		}
	}
	return routes
}

func pathContains(path []string, id string) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}
