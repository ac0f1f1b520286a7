package notify

import "fmt"

const signature = "This is an automated message from the URL Ping Service."

// DownMessage builds the alert for a target that just went down.
// statusCode 0 means no HTTP status was obtained.
func DownMessage(url string, statusCode int, errMsg string) (subject, body string) {
	subject = fmt.Sprintf("ALERT: %s is DOWN", url)

	codeTxt := "N/A"
	if statusCode != 0 {
		codeTxt = fmt.Sprintf("%d", statusCode)
	}
	body = fmt.Sprintf(
		"The URL %s is currently DOWN.\n\nStatus Code: %s\nError: %s\n\n%s",
		url, codeTxt, errMsg, signature,
	)
	return subject, body
}

// RecoveryMessage builds the notification for a target that came back up.
func RecoveryMessage(url string) (subject, body string) {
	subject = fmt.Sprintf("RESOLVED: %s is back UP", url)
	body = fmt.Sprintf("The URL %s is now back UP.\n\n%s", url, signature)
	return subject, body
}
