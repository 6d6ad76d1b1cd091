package util

import (
	"html/template"
	"strings"
)

// TemplateFuncs 页面模板用的辅助函数
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// fieldErr 取指定表单字段的校验提示，没有时返回空串
		"fieldErr": func(data map[string]interface{}, name string) string {
			fieldErrors, ok := data["Errors"].(map[string]string)
			if !ok {
				return ""
			}
			return fieldErrors[name]
		},
		// imageSrc 把存储层返回的相对路径补全成 /uploads/ 下的访问地址，
		// 云存储返回的完整链接原样使用
		"imageSrc": func(imageURL string) string {
			if imageURL == "" {
				return ""
			}
			if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
				return imageURL
			}
			return "/uploads/" + strings.TrimPrefix(imageURL, "/")
		},
	}
}
