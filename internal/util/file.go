package util

import (
	"bufio"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SniffContentType 读取前 512 字节探测 MIME 类型，返回的 reader 仍包含完整内容
func SniffContentType(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", nil, err
	}
	return http.DetectContentType(head), br, nil
}

// StorageName 生成与原始文件名无关的存储名：随机十六进制 + 小写扩展名
func StorageName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}
