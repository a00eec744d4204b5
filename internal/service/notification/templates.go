// internal/service/notification/templates.go
package notification

import "fmt"

// BuildConfirmationBody 生成订单确认邮件的 HTML 正文。
func BuildConfirmationBody(event *Event) string {
	name := event.RecipientName
	if name == "" {
		name = "Customer"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #2c3e50; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order</h1>
	</div>
	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Hi %s,</p>
		<p>We have received your order and it is now awaiting payment.</p>
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%d</p>
		</div>
		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Order total</span>
			<span style="font-size: 24px; font-weight: bold; color: #2c3e50; margin-left: 10px;">&pound;%s</span>
		</div>
		<p style="font-size: 12px; color: #999; margin-bottom: 0;">Unpaid orders are cancelled automatically after the payment window closes.</p>
	</div>
</body>
</html>`, name, event.OrderNo, event.PaymentAmount.StringFixed(2))
}

// BuildOpsAlertBody 生成运营侧新订单告警邮件的 HTML 正文。
func BuildOpsAlertBody(event *Event) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 20px;">New order received</h1>
	<table style="border-collapse: collapse;">
		<tr><td style="padding: 6px 12px; color: #666;">Order number</td><td style="padding: 6px 12px; font-family: monospace;">%d</td></tr>
		<tr><td style="padding: 6px 12px; color: #666;">Customer ID</td><td style="padding: 6px 12px;">%d</td></tr>
		<tr><td style="padding: 6px 12px; color: #666;">Amount</td><td style="padding: 6px 12px;">&pound;%s</td></tr>
		<tr><td style="padding: 6px 12px; color: #666;">Created at</td><td style="padding: 6px 12px;">%s</td></tr>
	</table>
</body>
</html>`, event.OrderNo, event.UserID, event.PaymentAmount.StringFixed(2), event.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}
