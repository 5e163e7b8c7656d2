package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	"github.com/davicafu/vetquery/internal/shared/infra/platform/query"
)

var ErrMissingData = errors.New(`response has no "data" array`)

// DecodePage interpreta {data: [...], pagination: {total, currentPage}}. Si falta
// pagination, total = len(data) y currentPage = la página pedida.
func DecodePage(payload []byte, req sharedDomain.PageRequest) (sharedDomain.Page, error) {
	root := gjson.ParseBytes(payload)

	data := root.Get("data")
	if !data.IsArray() {
		return sharedDomain.Page{}, ErrMissingData
	}

	items := make([]sharedDomain.Record, 0, len(data.Array()))
	var decodeErr error
	data.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			decodeErr = fmt.Errorf("data element is not an object: %s", v.Raw)
			return false
		}
		var rec sharedDomain.Record
		if err := json.Unmarshal([]byte(v.Raw), &rec); err != nil {
			decodeErr = fmt.Errorf("decode data element: %w", err)
			return false
		}
		items = append(items, rec)
		return true
	})
	if decodeErr != nil {
		return sharedDomain.Page{}, decodeErr
	}

	if len(items) > req.PageSize {
		items = items[:req.PageSize]
	}

	total := len(items)
	current := req.PageNumber
	if p := root.Get("pagination"); p.IsObject() {
		if t := p.Get("total"); t.Exists() && t.Type != gjson.Null && t.Int() >= 0 {
			total = int(t.Int())
		}
		if c := p.Get("currentPage"); c.Exists() && c.Type != gjson.Null && c.Int() >= 1 {
			current = int(c.Int())
		}
	}
	if total < len(items) {
		total = len(items)
	}
	if pages := query.TotalPages(total, req.PageSize); pages > 0 {
		current = query.ClampPage(current, pages)
	}

	return sharedDomain.Page{
		Items:      items,
		TotalItems: total,
		PageNumber: current,
		PageSize:   req.PageSize,
	}, nil
}
