// Package templates provides email template components
package templates

import "fmt"

type EmailLayoutProps struct {
	Title   string
	Content string
}

func GetEmailLayout(props EmailLayoutProps) string {
	return fmt.Sprintf(`<!doctype html>
<html>
  <body style="background-color: #f4f5f6; font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; padding: 0;">
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%%" style="background-color: #f4f5f6;">
      <tr>
        <td>&nbsp;</td>
        <td style="max-width: 600px; padding: 24px; margin: 0 auto; display: block;">
          <div style="background: #ffffff; border-radius: 8px; padding: 24px;">
            <h1 style="font-size: 20px; margin: 0 0 16px;">%s</h1>
            %s
          </div>
          <p style="color: #9a9ea6; font-size: 12px; text-align: center; margin-top: 16px;">Harbor Commerce Analytics</p>
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`, props.Title, props.Content)
}

func GetParagraph(text string) string {
	return fmt.Sprintf(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">%s</p>`, text)
}
