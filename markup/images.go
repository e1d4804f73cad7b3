package markup

import "strings"

// Images returns image sources referenced by content in document order.
func Images(content string) []string {
	if !strings.Contains(content, "["+kwPicture) {
		return nil
	}
	var res []string
	Walk(Parse(content, Options{}), func(n Node) bool {
		if img, ok := n.(*Image); ok {
			res = append(res, img.Src)
		}
		return true
	})
	return res
}

// RewriteImages replaces every image source with the value returned by fn
// and returns canonical content. Content without image references is
// returned unchanged.
func RewriteImages(content string, rectBoxes bool, fn func(src string) string) string {
	if !strings.Contains(content, "["+kwPicture) {
		return content
	}
	nodes := Parse(content, Options{RectBoxes: rectBoxes})
	changed := false
	Walk(nodes, func(n Node) bool {
		if img, ok := n.(*Image); ok {
			if src := fn(img.Src); src != img.Src {
				img.Src, changed = src, true
			}
		}
		return true
	})
	if !changed {
		return content
	}
	return Serialize(nodes)
}
