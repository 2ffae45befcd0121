package page

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/docproof/internal/model"
)

// hashString returns the hex SHA3-256 digest of s.
func hashString(s string) string {
	sum := sha3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// computeDiff hashes the page header and every method.
func computeDiff(title, description, deprecated string, methods []*model.MethodInfo) (model.PageDiff, error) {
	diff := model.PageDiff{
		model.ModuleHashKey: hashString(title + "\x00" + description + "\x00" + deprecated),
	}
	for _, m := range methods {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to hash method %s: %w", m.Name, err)
		}
		diff[m.Name] = hashString(string(data))
	}
	return diff, nil
}
