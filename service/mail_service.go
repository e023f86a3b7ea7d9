package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, msg types.MailMessage) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

const smtpTimeout = 30 * time.Second

type smtpMailer struct {
	cfg  SMTPConfig
	opts []mail.Option
}

// NewSMTPMailer sends through an SMTP relay, upgrading with STARTTLS when
// the server offers it.
func NewSMTPMailer(cfg SMTPConfig) (Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(smtpTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	// Fail at startup on options the client rejects.
	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if _, err := newMessage(cfg.From, types.MailMessage{To: "check@example.com"}); err != nil {
		return nil, fmt.Errorf("mail.from: %w", err)
	}
	return &smtpMailer{cfg: cfg, opts: opts}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg types.MailMessage) error {
	out, err := newMessage(m.cfg.From, msg)
	if err != nil {
		return err
	}
	// A client holds one connection, so every send gets its own.
	client, err := mail.NewClient(m.cfg.Host, m.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	return nil
}

// newMessage builds a quoted-printable UTF-8 HTML message with Date and
// Message-ID set.
func newMessage(from string, msg types.MailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

type logMailer struct{}

// NewLogMailer only logs messages. Used when no SMTP host is configured.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(_ context.Context, msg types.MailMessage) error {
	zap.L().Info("mail (not sent, no smtp host)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

const (
	themeAssigned   = "#22C55E"
	themeUpdated    = "#2563EB"
	themeRemoved    = "#DC2626"
	themeReassigned = "#9333EA"
	themeDefault    = "#4F46E5"

	dailyReminderTextLimit = 30
)

type mailDetail struct {
	Label string
	Value string
}

type mailView struct {
	Theme     string
	Title     string
	Recipient string
	Message   string
	TaskName  string
	UpdatedBy string
	Details   []mailDetail
	Note      string
	Link      string
	Year      int
}

var mailTemplate = template.Must(template.New("mail").Parse(`<table width="100%" cellpadding="0" cellspacing="0" style="background-color:#f5f7fa;padding:30px 0;">
  <tr>
    <td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;font-family:Segoe UI, Arial, sans-serif;">
        <tr>
          <td style="background-color:{{.Theme}};color:#ffffff;padding:20px;text-align:center;font-size:22px;font-weight:bold;">Reminder App</td>
        </tr>
        <tr>
          <td style="padding:30px 40px;color:#333333;">
            <h2 style="font-size:18px;margin-bottom:15px;color:#111827;">{{.Title}}</h2>
            {{if .Recipient}}<p style="font-size:15px;">Hello <b>{{.Recipient}}</b>,</p>{{end}}
            <p style="font-size:15px;line-height:1.6;color:#444444;margin-bottom:10px;">{{.Message}}</p>
            {{if .TaskName}}<p style="font-size:14px;color:#555;margin:5px 0;"><strong>Task:</strong> {{.TaskName}}</p>{{end}}
            {{if .UpdatedBy}}<p style="font-size:14px;color:#555;margin:5px 0;"><strong>Updated by:</strong> {{.UpdatedBy}}</p>{{end}}
            {{if .Details}}<table width="100%" cellpadding="6" cellspacing="0" style="border-collapse:collapse;font-size:14px;margin-top:10px;">
              {{range .Details}}<tr><td><strong>{{.Label}}:</strong></td><td>{{.Value}}</td></tr>
              {{end}}</table>{{end}}
            {{if .Note}}<p style="font-size:14px;color:#555;">{{.Note}}</p>{{end}}
            {{if .Link}}<div style="text-align:center;margin-top:30px;">
              <a href="{{.Link}}" target="_blank" style="background-color:{{.Theme}};color:#ffffff;text-decoration:none;padding:12px 25px;border-radius:6px;font-size:15px;display:inline-block;">Login to Dashboard</a>
            </div>{{end}}
          </td>
        </tr>
        <tr>
          <td style="background-color:#f3f4f6;text-align:center;padding:15px;">
            <p style="color:#6b7280;font-size:13px;margin:0;">&copy; {{.Year}} Reminder App. This is an automated message, please do not reply.</p>
          </td>
        </tr>
      </table>
    </td>
  </tr>
</table>
`))

// MailRenderer turns notification intents into emails.
type MailRenderer struct {
	frontendURL string
}

func NewMailRenderer(frontendURL string) *MailRenderer {
	return &MailRenderer{frontendURL: frontendURL}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006 15:04")
}

func (r *MailRenderer) view(in types.NotificationIntent, recipient string) (string, mailView) {
	v := mailView{
		Theme:     themeDefault,
		Recipient: recipient,
		Link:      r.frontendURL,
		Year:      time.Now().Year(),
	}
	taskName := utils.Truncate(in.TaskName, utils.EmailTextLimit)
	switch in.Kind {
	case types.IntentAssigned:
		v.Theme = themeAssigned
		v.Title = "New Task Assignment"
		v.Message = "You have been assigned a new task."
		v.TaskName = taskName
		v.UpdatedBy = in.ActorName
		v.Details = []mailDetail{{"Priority", string(in.Priority)}, {"Due Date", formatDate(in.When)}}
		v.Note = "Please log in to your dashboard to review details and start working."
		return "New Task Assigned", v
	case types.IntentReassigned:
		v.Theme = themeReassigned
		v.Title = "Task Reactivation Notice"
		v.Message = "You have been reassigned to below task."
		v.TaskName = taskName
		v.UpdatedBy = in.ActorName
		v.Note = "Welcome back! Please review any new updates added since your last assignment."
		return "Task Reassigned", v
	case types.IntentRemoved:
		v.Theme = themeRemoved
		v.Title = "Task Unassignment Notice"
		v.Message = "You have been removed from below task."
		v.TaskName = taskName
		v.UpdatedBy = in.ActorName
		v.Note = "If you believe this is a mistake, please contact your project manager."
		return "Task Unassigned", v
	case types.IntentStatusUpdate:
		v.Theme = themeUpdated
		v.Title = "Task Update Notification"
		v.Message = "A task you are part of has been updated."
		v.TaskName = taskName
		v.UpdatedBy = in.ActorName
		v.Details = []mailDetail{{"Status", string(in.Status)}}
		if in.StatusDesc != "" {
			v.Details = append(v.Details, mailDetail{"Description", in.StatusDesc})
		}
		return "Update on task status", v
	case types.IntentTaskCreated:
		v.Theme = themeAssigned
		v.Title = "Task Assigned Successfully"
		v.Message = fmt.Sprintf("You have assigned %q to %d user(s).", in.TaskName, in.Count)
		return "Task Assigned Successfully", v
	case types.IntentTaskDeleted:
		v.Theme = themeRemoved
		v.Title = "Task Deleted"
		v.Message = "A task assigned to you has been deleted."
		v.TaskName = in.TaskName
		v.UpdatedBy = in.ActorName
		return "Task Deleted", v
	case types.IntentMeetingScheduled:
		v.Title = "New Meeting Scheduled"
		v.Message = "A new meeting has been scheduled:"
		v.Details = []mailDetail{
			{"Description", in.TaskName},
			{"Date & Time", formatDateTime(in.When)},
			{"Priority", string(in.Priority)},
		}
		return "New Meeting Scheduled", v
	case types.IntentDailyReminder:
		v.Title = "Daily Task Reminder"
		v.Message = "Here's your task for this reminder round:"
		v.Details = []mailDetail{
			{"Task", utils.Truncate(in.TaskName, dailyReminderTextLimit)},
			{"Created By", in.ActorName},
			{"Status", string(in.Status)},
			{"Due Date", formatDate(in.When)},
		}
		return "Task Reminder App", v
	case types.IntentSelfReminder:
		v.Title = "Task Reminder"
		v.Message = "This is a reminder for your task:"
		v.TaskName = in.TaskName
		v.Details = []mailDetail{{"Scheduled Reminder Time", formatDateTime(in.When)}}
		return "Task Reminder", v
	default:
		v.Title = "Notification"
		v.Message = in.TaskName
		return "Reminder App", v
	}
}

// Render builds the email for one intent addressed to user.
func (r *MailRenderer) Render(in types.NotificationIntent, user *types.User) (types.MailMessage, error) {
	subject, v := r.view(in, user.Name)
	var b bytes.Buffer
	if err := mailTemplate.Execute(&b, v); err != nil {
		return types.MailMessage{}, err
	}
	return types.MailMessage{
		To:      user.Email,
		Subject: subject,
		HTML:    b.String(),
	}, nil
}
