package registry

import "sort"

// Stats summarises the registry for discovery.
type Stats struct {
	Adapters        int                 `json:"adapters"`
	Connected       int                 `json:"connected"`
	Tools           int                 `json:"tools"`
	ToolsPerAdapter map[string]int      `json:"tools_per_adapter"`
	Languages       map[string][]string `json:"languages"`
}

func (r *Registry) Stats() Stats {
	s := Stats{
		Adapters:        len(r.adapters),
		Tools:           len(r.tools),
		ToolsPerAdapter: make(map[string]int, len(r.adapters)),
		Languages:       make(map[string][]string),
	}
	for _, a := range r.adapters {
		s.ToolsPerAdapter[a.Name()] = len(a.Tools())
		s.Languages[a.Language()] = append(s.Languages[a.Language()], a.Name())
		if a.IsConnected() {
			s.Connected++
		}
	}
	for _, names := range s.Languages {
		sort.Strings(names)
	}
	return s
}
