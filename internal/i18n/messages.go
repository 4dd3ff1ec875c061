package i18n

// Message keys.
const (
	MsgVerifySubject       = "verify.subject"
	MsgVerifyBody          = "verify.body"
	MsgConsultAckSubject   = "consult.ack.subject"
	MsgConsultAckBody      = "consult.ack.body"
	MsgConsultStaffSubject = "consult.staff.subject"
	MsgConsultStaffBody    = "consult.staff.body"
	MsgTermsTitle          = "legal.terms.title"
	MsgTermsBody           = "legal.terms.body"
	MsgPrivacyTitle        = "legal.privacy.title"
	MsgPrivacyBody         = "legal.privacy.body"
	MsgLastUpdated         = "legal.updated"
	MsgPopup               = "popup.subscribe"
)

var english = map[string]string{
	MsgVerifySubject: "Your VitaCross verification code",
	MsgVerifyBody:    "Your verification code is %s. It expires in %d minutes.\n\nIf you did not request this code you can ignore this email.",

	MsgConsultAckSubject: "We received your consultation request",
	MsgConsultAckBody: "Dear %s,\n\nThank you for contacting VitaCross. Your consultation request #%d has been received. " +
		"Our medical coordinators will review it and get back to you within 24 hours.\n\nVitaCross",

	MsgConsultStaffSubject: "New consultation request #%d",
	MsgConsultStaffBody:    "Patient: %s %s\nEmail: %s\nPhone: %s\nTreatment: %s\nSpecialty: %s\n\n%s",

	MsgTermsTitle: "Terms of Service",
	MsgTermsBody: "<h2>Acceptance</h2><p>By using VitaCross you agree to these terms.</p>" +
		"<h2>Medical information</h2><p>Content on this site is informational and does not replace a consultation with a licensed physician.</p>" +
		"<h2>Services and payments</h2><p>Prices are listed in USD. Orders are confirmed once payment has been received.</p>" +
		"<h2>Contact</h2><p>For questions, contact us at vitacross@163.com</p>",

	MsgPrivacyTitle: "Privacy Policy",
	MsgPrivacyBody: "<h2>Information we collect</h2><p>We collect the contact details and medical information you submit in consultation requests, and the files you upload.</p>" +
		"<h2>How we use it</h2><p>Your data is used only to coordinate your treatment with partner hospitals in China.</p>" +
		"<h2>Storage</h2><p>Medical files are kept in private encrypted storage and shared only through short-lived links.</p>" +
		"<h2>Account deletion</h2><p>You can delete your account at any time from your profile.</p>",

	MsgLastUpdated: "Last updated: %s",
	MsgPopup:       "Subscribe to vitacross@163.com to get the latest offers and consultation updates",
}

var chinese = map[string]string{
	MsgVerifySubject: "您的 VitaCross 验证码",
	MsgVerifyBody:    "您的验证码是 %s，%d 分钟内有效。\n\n如果这不是您本人的操作，请忽略此邮件。",

	MsgConsultAckSubject: "我们已收到您的咨询申请",
	MsgConsultAckBody: "%s 您好：\n\n感谢您联系 VitaCross。您的咨询申请 #%d 已收到，" +
		"我们的医疗协调员将在 24 小时内与您联系。\n\nVitaCross",

	MsgConsultStaffSubject: "新的咨询申请 #%d",
	MsgConsultStaffBody:    "患者：%s %s\n邮箱：%s\n电话：%s\n治疗类型：%s\n专科：%s\n\n%s",

	MsgTermsTitle: "服务条款",
	MsgTermsBody: "<h2>接受条款</h2><p>使用 VitaCross 即表示您同意本条款。</p>" +
		"<h2>医疗信息</h2><p>本网站内容仅供参考，不能替代执业医师的诊断。</p>" +
		"<h2>服务与付款</h2><p>价格以美元计价，订单在收到付款后确认。</p>" +
		"<h2>联系我们</h2><p>如有疑问，请联系 vitacross@163.com</p>",

	MsgPrivacyTitle: "隐私政策",
	MsgPrivacyBody: "<h2>我们收集的信息</h2><p>我们收集您在咨询申请中提交的联系方式、病情信息以及上传的文件。</p>" +
		"<h2>信息用途</h2><p>您的信息仅用于与中国合作医院协调您的治疗。</p>" +
		"<h2>存储</h2><p>医疗文件保存在加密的私有存储中，仅通过短时有效的链接共享。</p>" +
		"<h2>删除账户</h2><p>您可以随时在个人资料中删除账户。</p>",

	MsgLastUpdated: "最后更新：%s",
	MsgPopup:       "订阅 vitacross@163.com，获取最新优惠和咨询动态",
}
