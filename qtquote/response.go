package qtquote

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// textDecoder reads the response body into a *string. The endpoint serves
// GBK unless the response says otherwise.
type textDecoder struct{}

func (textDecoder) Decode(resp *http.Response, v interface{}) error {
	out, ok := v.(*string)
	if !ok {
		return fmt.Errorf("decoding body into %T: want *string", v)
	}
	var r io.Reader = resp.Body
	if !isUTF8(resp.Header.Get("Content-Type")) {
		r = transform.NewReader(resp.Body, simplifiedchinese.GBK.NewDecoder())
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading body: %v", err)
	}
	*out = string(b)
	return nil
}

func isUTF8(contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch strings.ToLower(params["charset"]) {
	case "utf-8", "utf8":
		return true
	}
	return false
}
