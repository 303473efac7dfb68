package export

import (
	"encoding/json"

	"github.com/matzehuels/treeline/pkg/outline"
)

type jsonOutline struct {
	Rows []jsonRow `json:"rows"`
}

type jsonRow struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Depth      int    `json:"depth"`
	Expandable bool   `json:"expandable,omitempty"`
	Expanded   bool   `json:"expanded,omitempty"`
}

// JSON exports the displayed rows as a pretty-printed JSON document: one
// entry per visible row in document order, with its indentation depth and
// disclosure flags. Hidden subtrees of collapsed containers are not
// included; the dump captures what is on screen, not the whole document.
//
// JSON returns an error only if marshaling fails. It does not modify the
// source.
func JSON(src *outline.Source, opts Options) ([]byte, error) {
	out := jsonOutline{Rows: []jsonRow{}}

	var walk func(parent outline.ID, depth int)
	walk = func(parent outline.ID, depth int) {
		n := src.NumberOfChildren(parent)
		for i := 0; i < n; i++ {
			item, ok := src.ChildAt(parent, i)
			if !ok {
				continue
			}
			out.Rows = append(out.Rows, jsonRow{
				ID:         string(item.ID),
				Label:      baseLabel(item, opts),
				Depth:      depth,
				Expandable: src.IsExpandable(item.ID),
				Expanded:   src.IsExpanded(item.ID),
			})
			walk(item.ID, depth+1)
		}
	}
	walk(outline.RootID, 0)

	return json.MarshalIndent(out, "", "  ")
}
