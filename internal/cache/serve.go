package cache

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/neuralspace/pkg"
)

// ServeJSON writes the cached body for kind/key, or calls load, caches its
// JSON encoding and writes it. Errors from load are returned untouched and
// nothing is written. The entry is stored under the generation current
// before load ran, so an invalidation racing with load drops the result.
func (c *ContentCache) ServeJSON(w http.ResponseWriter, kind, key string, load func() (any, error)) error {
	var cacheKey []byte
	if c != nil {
		cacheKey = c.cacheKey(kind, key)
		if body, found := c.get(cacheKey); found {
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, body)
			return nil
		}
	}

	v, err := load()
	if err != nil {
		return err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s response: %w", kind, err)
	}

	if c != nil {
		c.set(cacheKey, body)
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, body)
	return nil
}
