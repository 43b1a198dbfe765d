package youtube

import (
	"strings"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
)

// textAtKey reads a text field that is either a plain string or a text object.
func textAtKey(obj jsonnav.Object, key string) string {
	if obj.IsString(key) {
		return obj.String(key, "")
	}
	return textFromObject(obj.Object(key))
}

// textFromObject reads {"simpleText": ...} or concatenates {"runs": [{"text": ...}]}.
func textFromObject(text jsonnav.Object) string {
	if text.IsString("simpleText") {
		return text.String("simpleText", "")
	}

	var b strings.Builder
	for _, run := range text.Array("runs").Objects() {
		b.WriteString(run.String("text", ""))
	}
	return b.String()
}
