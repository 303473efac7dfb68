// Package export renders the displayed outline as a diagram or a row dump.
//
// The exporters read the same queries a host widget reads —
// [outline.Source.NumberOfChildren], [outline.Source.ChildAt] and the
// expansion predicates — so an export shows exactly the rows a table built
// from that source would show. Collapsed containers appear with dashed
// outlines and their hidden subtrees are elided; expanding or collapsing
// rows before exporting changes the picture the same way it changes the
// screen.
//
// # Pipeline
//
// Graph output goes through Graphviz DOT as the intermediate form:
//
//	Source → DOT() → DOT text → RenderSVG() → SVG → rsvg-convert → PNG
//
// The DOT text is itself a supported output, so a diagram can be re-rendered
// or restyled without reopening the document. [SVG] and [PNG] bundle the two
// steps.
//
// # Row Dumps
//
// [JSON] flattens the displayed rows in document order with their depth and
// disclosure flags. This is the data interchange format: it captures what is
// on screen, not the full document (the document's own file format already
// does that).
//
// # Labels
//
// The engine never inspects item values, so by default rows are labeled with
// their identity. Hosts that want titles pass [Options.Label]:
//
//	dot := export.DOT(src, export.Options{
//		Label: func(item outline.Item) string {
//			return item.Value.(*doc.Node).Title
//		},
//	})
//
// [outline.Source.NumberOfChildren]: github.com/matzehuels/treeline/pkg/outline#Source.NumberOfChildren
// [outline.Source.ChildAt]: github.com/matzehuels/treeline/pkg/outline#Source.ChildAt
package export
