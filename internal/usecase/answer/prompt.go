package answer

import (
	"fmt"
	"strings"

	"github.com/futig/scrapbox-rag/internal/entity"
)

const promptTemplate = `あなたはScrapboxの知識ベースに基づくアシスタントです。
以下の「提供されたコンテキスト」のみを使用して、ユーザーの質問に日本語で答えてください。
コンテキストから答えが見つからない場合は、「わかりません」と答えてください。
回答には、どのソースに基づいているかを明記する必要はありません（後でシステムが付与します）。

### 提供されたコンテキスト:
%s

### 質問:
%s

### 回答:`

// BuildPrompt renders the retrieval-augmented prompt for query. Chunks are
// numbered from 1 in the given order.
func BuildPrompt(query string, chunks []entity.Chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		fmt.Fprintf(&b, "--- Source %d: %s ---\n%s\n\n", i+1, c.PageTitle, c.Content)
	}
	return fmt.Sprintf(promptTemplate, b.String(), query)
}

// Sources returns the chunk URLs without duplicates, in first-seen order.
func Sources(chunks []entity.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		sources = append(sources, c.URL)
	}
	return sources
}
