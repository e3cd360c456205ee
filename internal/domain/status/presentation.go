package status

type Presentation struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type Catalog[S ~string] map[S]Presentation

var unknownPresentation = Presentation{Color: "bg-gray-100 text-gray-800"}

func (c Catalog[S]) Lookup(s S) Presentation {
	if p, ok := c[s]; ok {
		return p
	}
	p := unknownPresentation
	p.Label = string(s)
	return p
}

// Option is one reachable state as shown to a client.
type Option[S ~string] struct {
	Status S `json:"status"`
	Presentation
}

func (c Catalog[S]) Options(states []S) []Option[S] {
	out := make([]Option[S], 0, len(states))
	for _, s := range states {
		out = append(out, Option[S]{Status: s, Presentation: c.Lookup(s)})
	}
	return out
}
