package ui

import (
	"github.com/bytedance/sonic"
)

// PrettyJSON returns body indented when it is JSON, otherwise the raw text
func PrettyJSON(body []byte) string {
	var v interface{}
	if err := sonic.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(out)
}
