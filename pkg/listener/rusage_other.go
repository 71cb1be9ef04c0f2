//go:build !unix

package listener

func maxRSS() (int64, bool) {
	return 0, false
}
