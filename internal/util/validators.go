package util

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateTimeLocalLayout 表单 datetime-local 控件提交的时间格式
const DateTimeLocalLayout = "2006-01-02T15:04"

// ValidateDateTimeLocal 验证字段是否为合法的 datetime-local 时间串
func ValidateDateTimeLocal(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := ParseDateTimeLocal(value)
	return err == nil
}

// ParseDateTimeLocal 解析 datetime-local 时间串，按服务器时区解释
func ParseDateTimeLocal(value string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLocalLayout, value, time.Local)
}

// 校验标签对应的提示文案
var fieldErrorMessages = map[string]string{
	"required":       "必填项",
	"email":          "邮箱格式不正确",
	"max":            "内容过长",
	"min":            "内容过短",
	"datetime_local": "时间格式不正确",
}

// FieldErrors 把校验错误翻译成 字段名->提示 的映射，用于表单回显
func FieldErrors(err error) map[string]string {
	result := make(map[string]string)
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result["__all__"] = "提交的数据无效"
		return result
	}
	for _, fieldErr := range validationErrs {
		msg, ok := fieldErrorMessages[fieldErr.Tag()]
		if !ok {
			msg = fmt.Sprintf("字段校验失败（%s）", fieldErr.Tag())
		}
		result[fieldErr.Field()] = msg
	}
	return result
}
