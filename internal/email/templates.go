package email

import "fmt"

func renderVerification(token string) string {
	return fmt.Sprintf(`<html><body>
<h2>Добро пожаловать!</h2>
<p>Для подтверждения email перейдите по ссылке:</p>
<p><a href="https://admarket.io/verify?token=%s">Подтвердить email</a></p>
<p>Если вы не регистрировались на нашей платформе, проигнорируйте это письмо.</p>
</body></html>`, token)
}

func renderPasswordReset(token string) string {
	return fmt.Sprintf(`<html><body>
<h2>Сброс пароля</h2>
<p>Вы запросили сброс пароля. Перейдите по ссылке, чтобы задать новый:</p>
<p><a href="https://admarket.io/reset-password?token=%s">Сбросить пароль</a></p>
<p>Ссылка действительна 1 час. Если вы не запрашивали сброс, проигнорируйте это письмо.</p>
</body></html>`, token)
}
