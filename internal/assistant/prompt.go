package assistant

import (
	"fmt"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
)

const responseShape = `Reply with a single JSON object and nothing else:
{
  "action": one of CREATE_TRANSACTION, CREATE_EVENT, CREATE_TASK, CREATE_GOAL, ANSWER, NOTE,
  "conversationalResponse": string, only for ANSWER,
  "data": {
    "amount": number, "currency": string, "category": string, "isExpense": boolean, "description": string,
    "title": string, "startTimeISO": string, "endTimeISO": string, "location": string,
    "dueDateISO": string, "status": "TODO" | "IN_PROGRESS" | "DONE",
    "targetAmount": number, "currentAmount": number,
    "content": string, "suggestedTags": [string]
  }
}`

func systemInstruction(mode model.Mode, now time.Time) string {
	return fmt.Sprintf(`You are Nexus, the assistant of a personal workspace.
The user is currently in the %q area.

Classify the user's input into one structured action, or answer it.

Rules:
1. Spending, earning or saving money: CREATE_TRANSACTION, or CREATE_GOAL for a savings target.
   Amounts are in XOF unless another currency is named. Salary, income and refunds set isExpense to false.
2. A future plan, appointment or meeting: CREATE_EVENT with ISO 8601 start and end times.
3. Something to do: CREATE_TASK.
4. A question or request for information: ANSWER, with the reply in conversationalResponse.
5. Anything else is a thought: NOTE.

Resolve relative dates such as "tomorrow" against the current date.
Current Date: %s

%s`, string(mode), now.Format(time.RFC3339), responseShape)
}
