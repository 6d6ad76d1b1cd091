package service

import (
	"blogicum/config"
	"blogicum/internal/util"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 负责发送密码重置邮件
type EmailService struct {
	smtpHost  string
	smtpPort  int
	username  string
	password  string
	jwtSecret string
}

// NewEmailService 创建一个新的 EmailService 实例
func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:  config.AppConfig.SMTPHost,
		smtpPort:  config.AppConfig.SMTPPort,
		username:  config.AppConfig.SMTPUsername,
		password:  config.AppConfig.SMTPPassword,
		jwtSecret: config.AppConfig.JWTSecret,
	}
}

// Configured SMTP 配置是否完整
func (s *EmailService) Configured() bool {
	return s.smtpHost != "" && s.username != "" && s.password != ""
}

// SendPasswordResetEmail 发送带重置链接的邮件
func (s *EmailService) SendPasswordResetEmail(email string) error {
	token, err := s.GeneratePasswordResetToken(email)
	if err != nil {
		util.Logger.Error("生成密码重置令牌失败", zap.Error(err))
		return fmt.Errorf("生成密码重置令牌失败: %w", err)
	}

	resetLink := fmt.Sprintf("%s/auth/password_reset/confirm/?token=%s", config.AppConfig.BackendURL, token)

	subject := "重置您的密码 - Blogicum 博客"
	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="zh-CN">
	<head>
		<meta charset="UTF-8">
		<title>重置您的密码</title>
	</head>
	<body>
		<h2>密码重置请求</h2>
		<p>亲爱的用户，</p>
		<p>我们收到了您的密码重置请求。如果这不是您本人操作，请忽略此邮件。</p>
		<p>要重置您的密码，请点击以下链接：</p>
		<p><a href="%s">重置密码</a></p>
		<p>或者将链接复制到浏览器地址栏：</p>
		<p>%s</p>
		<p>此链接将在1小时后过期。</p>
		<p>此邮件由系统自动发送，请勿直接回复。</p>
	</body>
	</html>
	`, resetLink, resetLink)

	return s.sendEmail(email, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	if !s.Configured() {
		util.Logger.Warn("SMTP配置不完整，邮件未发送", zap.String("to", to))
		return fmt.Errorf("SMTP未配置")
	}

	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

// GeneratePasswordResetToken 生成一小时有效的重置令牌
func (s *EmailService) GeneratePasswordResetToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(1 * time.Hour).Unix(),
		"type":  "password_reset",
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyPasswordResetToken 校验重置令牌并返回其中的邮箱
func (s *EmailService) VerifyPasswordResetToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		util.Logger.Error("解析密码重置令牌失败", zap.Error(err))
		return "", fmt.Errorf("无效的令牌: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		email, ok := claims["email"].(string)
		if !ok {
			util.Logger.Error("令牌中缺少邮箱信息")
			return "", fmt.Errorf("无效的令牌: 缺少邮箱信息")
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "password_reset" {
			util.Logger.Error("无效的令牌类型")
			return "", fmt.Errorf("无效的令牌类型")
		}

		return email, nil
	}

	util.Logger.Error("无效的令牌")
	return "", fmt.Errorf("无效的令牌")
}
