package protocol

// The functions below are one constructor per message shape used by a
// client or by a handler building its response.

func NewConnectRequest(clientID string) *Message {
	m := New(ConnectRequest)
	if clientID != "" {
		m.SetString("client_id", clientID)
	}
	return m
}

func NewConnectResponse(success bool, reason string) *Message {
	m := New(ConnectResponse)
	m.SetBool("success", success)
	m.SetString("reason", reason)
	return m
}

func NewAuthRequest(urn, pin string) *Message {
	m := New(AuthRequest)
	m.SetString("urn", urn)
	if pin != "" {
		m.SetString("pin", pin)
	}
	return m
}

func NewAuthResponse(success bool, token string) *Message {
	m := New(AuthResponse)
	m.SetBool("success", success)
	if success {
		m.SetString("token", token)
	}
	return m
}

func NewRegisterUser(urn, name string, age int, pinHash string) *Message {
	m := New(RegisterUser)
	m.SetString("urn", urn)
	if name != "" {
		m.SetString("name", name)
	}
	if age != 0 {
		m.SetInt("age", int64(age))
	}
	if pinHash != "" {
		m.SetString("pin_hash", pinHash)
	}
	return m
}

func NewRegisterDevice(uri string, vehicleType VehicleType) *Message {
	m := New(RegisterDevice)
	m.SetString("uri", uri)
	m.SetInt("vehicle_type", int64(vehicleType))
	return m
}

func NewReserveSeat(urn string, vehicleType VehicleType, route string) *Message {
	m := New(ReserveSeat)
	m.SetString("urn", urn)
	m.SetInt("vehicle_type", int64(vehicleType))
	m.SetString("route", route)
	return m
}

func NewPurchaseTicket(sessionID string, ticketType TicketType, vehicleType VehicleType, route string, passengers int) *Message {
	m := New(PurchaseTicket)
	if sessionID != "" {
		m.SetString("session_id", sessionID)
	}
	m.SetInt("ticket_type", int64(ticketType))
	m.SetInt("vehicle_type", int64(vehicleType))
	m.SetString("route", route)
	if passengers <= 0 {
		passengers = 1
	}
	m.SetInt("passengers", int64(passengers))
	return m
}

func NewCreateGroup(groupName, leaderURN string) *Message {
	m := New(CreateGroup)
	m.SetString("group_name", groupName)
	m.SetString("leader_urn", leaderURN)
	return m
}

func NewDeleteUser(urn, reason string) *Message {
	m := New(DeleteUser)
	m.SetString("urn", urn)
	if reason != "" {
		m.SetString("reason", reason)
	}
	return m
}

func NewAddMemberToGroup(sessionID, groupName, memberURN string) *Message {
	m := New(AddMemberToGroup)
	if sessionID != "" {
		m.SetString("session_id", sessionID)
	}
	m.SetString("group_name", groupName)
	m.SetString("urn", memberURN)
	return m
}

func NewDeleteGroupMember(sessionID, groupName, memberURN string) *Message {
	m := New(DeleteGroupMember)
	if sessionID != "" {
		m.SetString("session_id", sessionID)
	}
	m.SetString("group_name", groupName)
	m.SetString("urn", memberURN)
	return m
}

func NewUpdatePrice(vehicleType VehicleType, ticketType TicketType, price float64) *Message {
	m := New(UpdatePrice)
	m.SetInt("vehicle_type", int64(vehicleType))
	m.SetInt("ticket_type", int64(ticketType))
	m.SetDouble("price", price)
	return m
}

// UpdateVehicleFields carries the optional subset of vehicle fields
// UPDATE_VEHICLE may set; a nil pointer means "leave unset."
type UpdateVehicleFields struct {
	Active      *bool
	Route       *string
	VehicleType *VehicleType
}

func NewUpdateVehicle(uri string, f UpdateVehicleFields) *Message {
	m := New(UpdateVehicle)
	m.SetString("uri", uri)
	if f.Active != nil {
		m.SetBool("active", *f.Active)
	}
	if f.Route != nil {
		m.SetString("route", *f.Route)
	}
	if f.VehicleType != nil {
		m.SetInt("vehicle_type", int64(*f.VehicleType))
	}
	return m
}

func NewUpdateCapacity(uri string, capacity, availableSeats int) *Message {
	m := New(UpdateCapacity)
	m.SetString("uri", uri)
	m.SetInt("capacity", int64(capacity))
	m.SetInt("available_seats", int64(availableSeats))
	return m
}

func NewSuccessResponse(message string, data map[string]string) *Message {
	m := New(ResponseSuccess)
	m.SetBool("success", true)
	if message != "" {
		m.SetString("message", message)
	}
	for k, v := range data {
		m.SetString(k, v)
	}
	return m
}

func NewErrorResponse(errMessage string, errCode int) *Message {
	m := New(ResponseError)
	m.SetBool("success", false)
	m.SetString("error", errMessage)
	m.SetInt("error_code", int64(errCode))
	return m
}

func NewHeartbeat() *Message   { return New(Heartbeat) }
func NewDisconnect() *Message  { return New(Disconnect) }

func NewMulticastUpdate(updateType string, data map[string]string) *Message {
	m := New(MulticastUpdate)
	m.SetString("update_type", updateType)
	for k, v := range data {
		m.SetString(k, v)
	}
	return m
}
