package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// diagramSeeds covers every grammar the engine detects plus the
// preprocessing features.
var diagramSeeds = []string{
	"",
	"graph TD; A-->B;",
	"graph TD; A--",
	"flowchart LR\n  A[Start] --> B{Is it?}\n  B -->|Yes| C((OK))\n  B -- No --> D>Stop]\n  subgraph one\n    C --> E\n  end\n  classDef red fill:#f00\n  class A red",
	"sequenceDiagram\n  participant A as Alice\n  A->>+B: hello\n  B-->>-A: hi\n  loop every minute\n    A-)B: ping\n  end\n  Note right of B: thinks",
	"classDiagram\n  class Animal~T~ {\n    +String name\n    +eat() void\n  }\n  Animal <|-- Duck : inherits\n  <<interface>> Animal",
	"stateDiagram-v2\n  [*] --> Still\n  Still --> Moving : push\n  state Moving {\n    [*] --> Fast\n  }\n  Moving --> [*]",
	"erDiagram\n  CUSTOMER ||--o{ ORDER : places\n  ORDER {\n    string id PK\n  }",
	"pie showData\n  title Pets\n  \"Dogs\" : 386\n  \"Cats\" : 85.5",
	"gantt\n  dateFormat YYYY-MM-DD\n  section A\n  Task one :a1, 2024-01-01, 30d",
	"journey\n  title My day\n  section Work\n    Code: 5: Me",
	"---\ntitle: Flow\nconfig:\n  theme: dark\n---\ngraph LR\nA-->B",
	"%%{init: {'theme': 'forest'}}%%\n%% comment\ngraph TD\nA-->B",
	"%%{init: [}%%\ngraph TD",
	"graph TD\nA[\"<script>alert(1)</script>\"]-->B",
	"graph TD\n@@@",
	"graph TD\nend",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range diagramSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.mmd файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".mmd" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
