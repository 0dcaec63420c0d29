package visual_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/algoflow/pkg/visual"
)

func ExampleDecode() {
	doc := `{
		"type": "LINKED_LIST",
		"elements": [{"id": "n1", "value": 3}, {"id": "n2", "value": 7}, {"id": "n1", "value": 9}],
		"connections": [{"from": "n1", "to": "n2", "type": "directed"}, {"from": "n2", "to": "gone"}]
	}`

	s, err := visual.Decode(strings.NewReader(doc), visual.FormatJSON)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// The repeated n1 was dropped; the dangling connection is kept but not live.
	fmt.Println(s.Type, len(s.Elements), len(s.Connections), len(s.LiveConnections()))
	// Output: LINKED_LIST 2 2 1
}

func ExampleDecode_legacy() {
	// A legacy document carries raw data instead of elements.
	doc := "type: STRINGS\ndata: abc\n"

	s, err := visual.Decode(strings.NewReader(doc), visual.FormatYAML)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, e := range s.Elements {
		fmt.Println(e.ID, e.Value)
	}
	// Output:
	// item-0 a
	// item-1 b
	// item-2 c
}

func ExampleEncode() {
	s := &visual.State{
		Type:     visual.Array,
		Elements: []visual.Element{{ID: "a", Value: 1}},
	}
	if err := visual.Encode(os.Stdout, s); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "type": "ARRAY",
	//   "elements": [
	//     {
	//       "id": "a",
	//       "value": 1
	//     }
	//   ]
	// }
}
