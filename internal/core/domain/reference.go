package domain

// ReferenceLookups maps codes to display descriptions for one request.
type ReferenceLookups struct {
	Regions     map[string]string
	Locations   map[string]string
	CaseWorkers map[string]string
}

// RegionName returns the description of a region code, or the code itself.
func (l ReferenceLookups) RegionName(code string) string {
	return describe(l.Regions, code)
}

// LocationName returns the description of a location code, or the code itself.
func (l ReferenceLookups) LocationName(code string) string {
	return describe(l.Locations, code)
}

// CaseWorkerName returns the display name of a case worker id, or the id itself.
func (l ReferenceLookups) CaseWorkerName(id string) string {
	return describe(l.CaseWorkers, id)
}

func describe(m map[string]string, code string) string {
	if code == "" {
		return UnknownLabel
	}
	if name, ok := m[code]; ok && name != "" {
		return name
	}
	return code
}
