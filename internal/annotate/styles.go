package annotate

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

const baseRules = `.kanji-highlight {
  display: inline-block;
  position: relative;
  vertical-align: baseline;
  line-height: normal;
}
.kanji-highlight ruby {
  display: inline-flex;
  vertical-align: baseline;
  line-height: 1;
}
.kanji-highlight rb {
  display: inline-block;
  font-size: 1em;
  line-height: inherit;
}
.kanji-highlight rt {
  display: inline-block;
  font-size: 0.3em;
  font-weight: normal;
  line-height: normal;
  text-align: start;
  color: inherit;
}
`

var orientationRules = map[domain.Orientation]string{
	domain.OrientationVerticalRight: `.kanji-highlight.vertical-right {
  margin-right: 0.4em;
}
.kanji-highlight.vertical-right rt {
  display: flex;
  position: absolute;
  top: 0;
  right: -1.2em;
  height: 100%;
  align-items: center;
  justify-content: center;
  writing-mode: vertical-rl;
  text-orientation: upright;
}
`,
	domain.OrientationHorizontalAbove: `.kanji-highlight.horizontal-above rt {
  position: absolute;
  top: -0.6em;
  left: 50%;
  transform: translateX(-50%);
  white-space: nowrap;
}
`,
	domain.OrientationHorizontalBelow: `.kanji-highlight.horizontal-below rt {
  position: absolute;
  bottom: -0.9em;
  left: 50%;
  transform: translateX(-50%);
  white-space: nowrap;
}
`,
}

// Stylesheet returns the CSS hosts inject once to render annotations in every
// orientation.
func Stylesheet() string {
	var b strings.Builder
	b.WriteString(baseRules)
	for _, o := range domain.Orientations() {
		b.WriteString(orientationRules[o])
	}
	return b.String()
}

// ClassFor returns the class attribute value of an annotation span.
func ClassFor(o domain.Orientation) string {
	return fmt.Sprintf("%s %s", HighlightClass, o)
}
