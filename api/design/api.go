package design

import (
	. "goa.design/goa/v3/dsl"
)

var _ = API("xconsultation", func() {
	Title("X Consultation API")
	Description("Intake API for the X Consultation website: contact forms and quick appointment requests")
	Version("1.0.0")
	Server("api", func() {
		Host("localhost", func() {
			URI("http://localhost:5000")
		})
	})
})

// Health check
var _ = Service("health", func() {
	Description("Health check service")
	Method("check", func() {
		Result(HealthResult)
		HTTP(func() {
			GET("/health")
			Response(StatusOK)
		})
	})
})

var HealthResult = Type("HealthResult", func() {
	Attribute("status", String, "Service status", func() {
		Enum("healthy", "degraded")
		Example("healthy")
	})
	Attribute("service", String, "Service name", func() {
		Example("X Consultation API")
	})
	Attribute("database", String, "Database reachability", func() {
		Enum("ok", "unavailable")
	})
	Required("status", "service", "database")
})

// Contact service
var _ = Service("contact", func() {
	Description("Contact form intake")
	Error("bad_request")
	Error("internal")

	Method("submit", func() {
		Description("Store a contact form, notify the admin and confirm to the sender in their language")
		Payload(ContactSubmitPayload)
		Result(ContactSubmitResult)
		HTTP(func() {
			POST("/contact-form/submit")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
			Response("internal", StatusInternalServerError)
		})
	})
})

var ContactSubmitPayload = Type("ContactSubmitPayload", func() {
	Attribute("name", String, "Full name", func() {
		Example("Ayşe Yılmaz")
	})
	Attribute("phone", String, "Phone number, phoneNumber is accepted as an alias", func() {
		Example("+90 555 123 45 67")
	})
	Attribute("phoneNumber", String, "Alias of phone")
	Attribute("email", String, "Email address", func() {
		Format(FormatEmail)
		Example("ayse@example.com")
	})
	Attribute("topic", String, "Consultation topic", func() {
		Example("Danışmanlık")
	})
	Attribute("message", String, "Free-form message")
	Attribute("language", String, "Preferred language, unsupported values fall back to tr", func() {
		Default("tr")
		Example("en")
	})
	Required("name", "email", "topic", "message")
})

var ContactSubmitResult = Type("ContactSubmitResult", func() {
	Attribute("message", String, "Localized confirmation")
	Attribute("formId", String, "Stored form identifier")
	Required("message", "formId")
})

// Quick appointment service
var _ = Service("quick_appointment", func() {
	Description("Quick appointment intake")
	Error("bad_request")
	Error("not_found")
	Error("internal")

	Method("quick_submit", func() {
		Description("Store a quick appointment request and notify the admin")
		Payload(QuickSubmitPayload)
		Result(QuickSubmitResult)
		HTTP(func() {
			POST("/quick-appointment/quick-submit")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
			Response("internal", StatusInternalServerError)
		})
	})

	Method("update_datetime", func() {
		Description("Record the preferred date and time on the most recent request for a phone number")
		Payload(UpdateDateTimePayload)
		Result(UpdateDateTimeResult)
		HTTP(func() {
			POST("/quick-appointment/update-datetime")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
			Response("not_found", StatusNotFound)
			Response("internal", StatusInternalServerError)
		})
	})

	Method("list", func() {
		Description("List the 50 most recent quick appointment requests")
		Result(ArrayOf(AppointmentResult))
		HTTP(func() {
			GET("/quick-appointment/list")
			Response(StatusOK)
			Response("internal", StatusInternalServerError)
		})
	})
})

var QuickSubmitPayload = Type("QuickSubmitPayload", func() {
	Attribute("phone", String, "Phone number, phoneNumber is accepted as an alias")
	Attribute("phoneNumber", String, "Alias of phone")
	Attribute("name", String, "Full name")
	Attribute("message", String, "Free-form message")
	Attribute("language", String, "Preferred language", func() {
		Default("tr")
	})
	Required("name", "message")
})

var QuickSubmitResult = Type("QuickSubmitResult", func() {
	Attribute("success", Boolean)
	Attribute("message", String, "Localized confirmation")
	Attribute("appointmentId", String, "Stored appointment identifier")
	Attribute("phoneNumber", String, "Phone number as stored")
	Required("success", "message", "appointmentId", "phoneNumber")
})

var UpdateDateTimePayload = Type("UpdateDateTimePayload", func() {
	Attribute("phone", String, "Phone number used on the quick submit")
	Attribute("phoneNumber", String, "Alias of phone")
	Attribute("preferredDate", String, "Preferred date, stored as Belirtilmedi when omitted", func() {
		Example("2025-03-10")
	})
	Attribute("preferredTime", String, "Preferred time, stored as Belirtilmedi when omitted", func() {
		Example("14:00")
	})
	Attribute("language", String, "Preferred language", func() {
		Default("tr")
	})
})

var UpdateDateTimeResult = Type("UpdateDateTimeResult", func() {
	Attribute("success", Boolean)
	Attribute("message", String, "Localized confirmation")
	Required("success", "message")
})

var AppointmentResult = Type("AppointmentResult", func() {
	Attribute("id", String)
	Attribute("phoneNumber", String)
	Attribute("name", String)
	Attribute("message", String)
	Attribute("preferredDate", String)
	Attribute("preferredTime", String)
	Attribute("language", String)
	Attribute("submittedAt", String, func() {
		Format(FormatDateTime)
	})
	Attribute("status", String, func() {
		Enum("pending", "confirmed", "completed", "cancelled")
	})
	Required("id", "phoneNumber", "name", "message", "language", "submittedAt", "status")
})
