package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Management API",
        "description": "Role-based school administration backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Token issuance and revocation"},
        {"name": "Users", "description": "User directory administration"},
        {"name": "Classes", "description": "Class and membership management"},
        {"name": "Subjects", "description": "Subjects and teaching assignments"},
        {"name": "Schedules", "description": "Weekly timetable"},
        {"name": "Grades", "description": "Grading workflow"},
        {"name": "Attendance", "description": "Daily attendance"},
        {"name": "Rosters", "description": "Teacher and student listings"},
        {"name": "Exports", "description": "Grade sheet downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with login and password",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account inactive"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Token expired or revoked"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the caller's refresh token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Token revoked"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paged user directory"},
                    "400": {"description": "Unknown sort column"}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create a user with its role profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "User created"},
                    "409": {"description": "Login or email already in use"}
                }
            }
        },
        "/users/roles": {
            "get": {
                "tags": ["Users"],
                "summary": "List assignable roles",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Role list"}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get one user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "User detail"},
                    "404": {"description": "User not found"}
                }
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update a user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Update outcome"}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete a user and its profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "User deleted"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paged class list"},
                    "400": {"description": "Unknown sort column"}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create a class and attach students",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Class created"}
                }
            }
        },
        "/classes/options": {
            "get": {
                "tags": ["Classes"],
                "summary": "List class picker options",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Class options"}
                }
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class detail with member student ids",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Class detail"},
                    "404": {"description": "Class not found"}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update a class and reconcile its membership",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Class updated"},
                    "404": {"description": "Class not found"}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete a class after detaching its members",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Class deleted"},
                    "404": {"description": "Class not found"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects with assignment labels",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paged subject list"},
                    "400": {"description": "Unknown sort column"}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create a subject with its assignments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Subject created"}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject detail with its assignments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Subject detail"},
                    "404": {"description": "Subject not found"}
                }
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Update a subject, replacing its assignment set",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Subject updated"},
                    "404": {"description": "Subject not found"}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete a subject and its assignments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Subject deleted"},
                    "404": {"description": "Subject not found"}
                }
            }
        },
        "/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Place one timetable slot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Slot placed"},
                    "409": {"description": "Class already has a lesson at this time"}
                }
            }
        },
        "/schedules/classes": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List classes with timetable entry counts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Classes with entry counts"}
                }
            }
        },
        "/schedules/class/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get one class timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Class timetable"},
                    "404": {"description": "Class not found"}
                }
            }
        },
        "/schedules/class/{id}/subjects": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List a class's subjects with their assigned teachers",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Subjects with teachers"}
                }
            }
        },
        "/schedules/my": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get the calling student's timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Student timetable"}
                }
            }
        },
        "/schedules/teacher": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get the calling teacher's timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Teacher timetable"}
                }
            }
        },
        "/grades": {
            "post": {
                "tags": ["Grades"],
                "summary": "Record a mark for a student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Grade recorded"},
                    "404": {"description": "Student or subject not found"}
                }
            }
        },
        "/grades/my": {
            "get": {
                "tags": ["Grades"],
                "summary": "List the calling student's grades",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paged grade list"},
                    "400": {"description": "Unknown sort column"}
                }
            }
        },
        "/grades/teacher": {
            "get": {
                "tags": ["Grades"],
                "summary": "List the grades the calling teacher recorded",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paged grade list"},
                    "400": {"description": "Unknown sort column"}
                }
            }
        },
        "/grades/subjects": {
            "get": {
                "tags": ["Grades"],
                "summary": "List the (subject, class) pairs the calling teacher may grade",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Subject and class pairs"}
                }
            }
        },
        "/grades/students": {
            "get": {
                "tags": ["Grades"],
                "summary": "List the students of a class for a subject the caller teaches",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Student options"},
                    "403": {"description": "Subject not assigned to this teacher for this class"}
                }
            }
        },
        "/attendance/today": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List the calling teacher's lessons for today",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Today's lessons"}
                }
            }
        },
        "/attendance/{scheduleId}/students": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List a lesson's students with their status for a date",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Students with statuses"},
                    "404": {"description": "Schedule entry not found"}
                }
            }
        },
        "/attendance/{scheduleId}": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Save a lesson's attendance for one date",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Attendance saved"},
                    "404": {"description": "Schedule entry not found"}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List teachers",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Teacher list"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List students with their class names",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Student list"}
                }
            }
        },
        "/exports/grades/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download one student's grade sheet",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "CSV or PDF download"},
                    "404": {"description": "Student not found"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "PagedEnvelope": {
            "type": "object",
            "properties": {
                "totalRecords": {"type": "integer"},
                "data": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
