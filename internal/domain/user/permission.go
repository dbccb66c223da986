package user

type Permission string

const (
	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"
	PermissionLeaveManage  Permission = "leave.manage"

	// Payroll
	PermissionPayrollManage Permission = "payroll.manage"

	// Interviews
	PermissionInterviewView     Permission = "interview.view"
	PermissionInterviewManage   Permission = "interview.manage"
	PermissionInterviewFeedback Permission = "interview.feedback"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
)

var employeePermissions = []Permission{
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: append([]Permission{
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManage,
		PermissionPayrollManage,
		PermissionInterviewView,
		PermissionInterviewManage,
		PermissionInterviewFeedback,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
	}, employeePermissions...),
	RoleHR: append([]Permission{
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManage,
		PermissionPayrollManage,
		PermissionInterviewView,
		PermissionInterviewManage,
		PermissionInterviewFeedback,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
	}, employeePermissions...),
	RoleManager: append([]Permission{
		// Manager approves and corrects team data, and sits on interview panels
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionInterviewView,
		PermissionInterviewFeedback,
		PermissionEmployeeViewAll,
	}, employeePermissions...),
	RoleEmployee: employeePermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
