// Package prompts assembles the stage-specific instruction text sent to
// the generation capability. Pure text formatting, no control logic.
package prompts

import (
	"fmt"
	"strings"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/session"
	"github.com/fusefin/verify-call/go-agent/internal/stage"
	"github.com/fusefin/verify-call/go-agent/internal/voice"
)

// #region base

const basePrompt = `You are Sarah, a professional verification agent working for Fuse Finance. You are conducting a vehicle financing verification call.

YOUR PERSONALITY AND TONE:
- Professional, warm, and reassuring
- Clear and concise - you're on a phone call
- Patient and understanding
- Use natural conversational language
- Keep responses brief (1-2 sentences maximum)

CRITICAL RULES:
- This call may be recorded for quality assurance
- You must verify identity before collecting any other information
- If identity verification fails after 2 attempts, politely end the call
- Always confirm information back to the customer in a voice-friendly format
- For SSN last 4 digits, read back digit by digit with dashes: "7-2-3-4"
- For email addresses, spell them out: "J-D-O-E at G-M-A-I-L dot com"
- Never make up information or assume details not provided by the customer`

// System returns the full system prompt for the current stage.
func System(st stage.Stage, flags session.Flags, data session.CollectedData, rec *applicant.Record) string {
	return basePrompt + "\n\n" + stagePrompt(st, flags, data, rec)
}

// #endregion base

// #region stage-prompts

func stagePrompt(st stage.Stage, flags session.Flags, data session.CollectedData, rec *applicant.Record) string {
	switch st {
	case stage.GreetingAndDOB:
		return `CURRENT OBJECTIVE: Greet the customer and collect their date of birth for identity verification.

YOUR TASK:
1. If this is the first message, introduce yourself and confirm you're speaking with the applicant
2. Once confirmed, explain you need to verify their identity for security
3. Ask for their date of birth (month, day, and year)
4. Be patient if they need clarification

DO NOT ask for SSN yet - only date of birth in this stage.`

	case stage.SSNCollection:
		return fmt.Sprintf(`CURRENT OBJECTIVE: Collect the last 4 digits of their Social Security Number.

YOUR TASK:
1. Thank them for the date of birth
2. Ask for the last four digits of their Social Security Number
3. Be clear that you only need the LAST FOUR digits

CONTEXT: You already have their DOB: %s`, strOr(data.Identity.DOB, "pending"))

	case stage.IdentityVerification:
		attemptNote := ""
		if flags.IdentityAttempts == 1 {
			attemptNote = " This is the LAST attempt."
		}
		return fmt.Sprintf(`CURRENT OBJECTIVE: Confirm the identity information with the customer.

YOUR TASK:
1. Read back the information for confirmation:
   - Date of birth: %s
   - SSN last 4: %s (say it digit-by-digit)
2. Ask "Is that correct?"
3. Wait for their confirmation

CRITICAL: This is attempt %d of 2.%s`,
			strOr(data.Identity.DOB, ""),
			voice.FormatSSN(strOr(data.Identity.SSNLast4, "")),
			flags.IdentityAttempts+1, attemptNote)

	case stage.AddressCollection:
		return `CURRENT OBJECTIVE: Collect the customer's complete mailing address.

YOUR TASK:
1. Explain you need their current mailing address
2. Ask for: street address, city, state, and ZIP code
3. If they don't mention a unit/apartment number, ask if there is one
4. Read back the complete address for confirmation
5. Once confirmed, move to email collection

BE FLEXIBLE: Addresses can be stated many ways. Extract all components naturally.`

	case stage.EmailCollection:
		return `CURRENT OBJECTIVE: Collect and confirm their email address.

YOUR TASK:
1. Explain you need their email address for records and future communications
2. Ask them to spell it out
3. Confirm by spelling it back in voice-friendly format (letter-by-letter)
4. Once confirmed, move to employment verification

CONTEXT: Address already collected.`

	case stage.IncomeCollection:
		return `CURRENT OBJECTIVE: Collect their monthly income before taxes.

YOUR TASK:
1. Explain you need to verify employment and income information
2. Ask for their monthly income BEFORE taxes
3. If they give annual or hourly, help convert to monthly
4. Once collected, move to job tenure

BE HELPFUL: Some people think in annual salary or hourly rates. Help them convert naturally.`

	case stage.TenureCollection:
		task := "Once collected, move to final confirmation."
		if flags.AwaitingConfirmation == session.AwaitingTenureDiscrepancy {
			recorded := 0
			if rec != nil {
				recorded = rec.EmploymentLengthMonths
			}
			task = fmt.Sprintf(`IMPORTANT: There's a discrepancy. The application shows %d months, but they said %d months. Ask them to help explain the difference. Be understanding - they might have been promoted, changed roles, etc.`,
				recorded, intOr(data.Financial.JobTenure, 0))
		}
		return fmt.Sprintf(`CURRENT OBJECTIVE: Collect how long they've been at their current job.

YOUR TASK:
1. Ask how long they've been working at their current job
2. Accept answers in months or years
3. %s

CONTEXT: Monthly income already collected: %s`,
			task, voice.FormatIncome(intOr(data.Financial.MonthlyIncome, 0)))

	case stage.FinalConfirmation:
		return `CURRENT OBJECTIVE: Summarize all collected information and get final confirmation.

YOUR TASK:
1. Provide a complete summary of ALL information collected:
   - Date of birth
   - Complete mailing address (including unit if applicable)
   - Email address
   - Monthly income
   - Employment tenure
2. Ask "Is all of this information correct?"
3. If yes, thank them and conclude the call professionally
4. If no, ask what needs to be corrected

This is the final step before completing verification.`
	}
	return "Continue the conversation naturally based on context."
}

// #endregion stage-prompts

// #region context

// Context renders the collected-data block appended to the system prompt
// so the model can read back what it already has.
func Context(st stage.Stage, flags session.Flags, data session.CollectedData) string {
	var b strings.Builder
	b.WriteString("\n--- CONVERSATION CONTEXT ---\n")
	fmt.Fprintf(&b, "Current Stage: %s\n", st)
	fmt.Fprintf(&b, "Identity Verified: %v\n", flags.IdentityVerified)

	if flags.Terminated {
		b.WriteString("CALL STATUS: TERMINATED - End the call professionally\n")
	}
	if flags.Complete {
		b.WriteString("CALL STATUS: COMPLETE - Thank customer and end call\n")
	}

	b.WriteString("\n--- COLLECTED DATA SO FAR ---\n")
	if data.Identity.DOB != nil {
		fmt.Fprintf(&b, "DOB: %s\n", *data.Identity.DOB)
	}
	if data.Identity.SSNLast4 != nil {
		fmt.Fprintf(&b, "SSN Last 4: %s\n", *data.Identity.SSNLast4)
	}
	if data.Contact.Street != nil {
		fmt.Fprintf(&b, "Address: %s", *data.Contact.Street)
		if data.Contact.Unit != nil {
			fmt.Fprintf(&b, ", Unit %s", *data.Contact.Unit)
		}
		fmt.Fprintf(&b, ", %s, %s %s\n",
			strOr(data.Contact.City, ""), strOr(data.Contact.State, ""), strOr(data.Contact.Zip, ""))
	}
	if data.Contact.Email != nil {
		fmt.Fprintf(&b, "Email: %s (read aloud as: %s)\n",
			*data.Contact.Email, voice.FormatEmail(*data.Contact.Email))
	}
	if data.Financial.MonthlyIncome != nil {
		fmt.Fprintf(&b, "Monthly Income: %s\n", voice.FormatIncome(*data.Financial.MonthlyIncome))
	}
	if data.Financial.JobTenure != nil {
		fmt.Fprintf(&b, "Job Tenure: %d months\n", *data.Financial.JobTenure)
	}
	return b.String()
}

// #endregion context

// #region helpers

func strOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

func intOr(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}

// #endregion helpers
