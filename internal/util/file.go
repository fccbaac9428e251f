package util

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// CheckImage 校验大小、扩展名和文件头，返回嗅探到的 MIME 类型，读取位置复原到开头。
// 校验失败的错误都包装了 ErrInvalidFile
func CheckImage(r io.ReadSeeker, filename string, size int64) (string, error) {
	if size > MaxAvatarSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrInvalidFile, MaxAvatarSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(AllowedImageExtensions, ext) {
		return "", fmt.Errorf("%w: extension %q", ErrInvalidFile, ext)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	mimeType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(mimeType, MimeImage) {
		return "", fmt.Errorf("%w: content type %s", ErrInvalidFile, mimeType)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mimeType, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
