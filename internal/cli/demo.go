package cli

import "github.com/matzehuels/treeline/pkg/doc"

// demoDocument builds the outline shown when browse runs without a file.
func demoDocument() *doc.Document {
	inbox := doc.NewNode("Inbox", true)
	inbox.Children = []*doc.Node{
		doc.NewNode("renew domain", false),
		doc.NewNode("call the dentist", false),
	}

	treeline := doc.NewNode("treeline", true)
	treeline.Children = []*doc.Node{
		doc.NewNode("ship row animations", false),
		doc.NewNode("fuzz the reconciler", false),
	}
	projects := doc.NewNode("Projects", true)
	projects.Children = []*doc.Node{
		treeline,
		doc.NewNode("garden irrigation", false),
	}

	reading := doc.NewNode("Reading", true)
	reading.Children = []*doc.Node{
		doc.NewNode("The Mythical Man-Month", false),
		doc.NewNode("A Philosophy of Software Design", false),
	}

	d := doc.New("demo outline")
	d.Roots = []*doc.Node{
		inbox,
		projects,
		reading,
		doc.NewNode("scratchpad.txt", false),
	}
	return d
}
