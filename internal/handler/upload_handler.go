package handler

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// 缩略图最大宽度，超过则等比缩小
const thumbnailMaxWidth = 320

// UploadImage 处理图片上传请求
func (a *API) UploadImage(c *gin.Context) {
	// 获取上传的文件
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	// 创建上传目录
	if err := os.MkdirAll(a.uploadDir, 0755); err != nil {
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	// 保存文件
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	fileURL := fmt.Sprintf("%s/%s", a.uploadURL, newFilename)

	// 生成缩略图，失败不影响上传结果
	thumbURL := ""
	thumbName := "thumb-" + strings.TrimSuffix(newFilename, ext) + ".jpg"
	if err := makeThumbnail(filePath, filepath.Join(a.uploadDir, thumbName)); err == nil {
		thumbURL = fmt.Sprintf("%s/%s", a.uploadURL, thumbName)
	}

	respondMessage(c, http.StatusOK, "上传成功", gin.H{
		"filePath":  fileURL,
		"url":       fileURL,
		"thumbnail": thumbURL,
	})
}

// makeThumbnail 生成宽度不超过上限的 JPEG 缩略图
func makeThumbnail(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > thumbnailMaxWidth {
		height = height * thumbnailMaxWidth / width
		width = thumbnailMaxWidth
	}

	thumb := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), img, bounds, xdraw.Over, nil)

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	return jpeg.Encode(dst, thumb, &jpeg.Options{Quality: 80})
}
